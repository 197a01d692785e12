// Package id mints ULID identifiers for journal entries and replay runs.
//
// ULIDs sort lexicographically by timestamp, so journal entry IDs minted
// from simulation time keep the audit trail ordered in SQLite indexes
// without an extra sequence column.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu   sync.Mutex
	mono io.Reader
)

func init() {
	var seed int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &seed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	// Monotonic entropy keeps IDs minted within the same millisecond
	// strictly increasing.
	mono = ulid.Monotonic(rand.New(rand.NewSource(seed)), 0)
}

// New returns a ULID string stamped with the current wall clock. Used for
// run-level identifiers where reproducibility does not matter.
func New() string {
	return NewAt(time.Now().UTC())
}

// NewAt returns a ULID string stamped with the given time. Journal
// entries use the simulation clock here so that replays of the same
// session produce entries that sort identically.
func NewAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(t), mono)
	if err != nil {
		// Only possible if the timestamp overflows the ULID epoch.
		panic(err)
	}
	return id.String()
}
