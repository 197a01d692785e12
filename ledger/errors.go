package ledger

import "fmt"

// InputError reports a malformed input event. The Apply call that saw it
// is a no-op: no journal entry, balance, or position is touched. The
// caller may skip the event and continue.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "ledger input: " + e.Reason
}

// InvariantError reports a violated double-entry invariant. This is a
// logic defect, not a data problem: the engine latches it and refuses all
// further mutation, because continuing would corrupt the audit trail.
// Operator intervention is required.
type InvariantError struct {
	EntryID string
	Detail  string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("ledger invariant violated (entry %s): %s", e.EntryID, e.Detail)
}
