package event

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// ReadJSONL decodes a stream of newline-delimited JSON events. Each line
// is either an envelope {"kind": ..., "fill": {...}} or a bare fill
// object, which is treated as a FILL event. Blank lines are skipped.
func ReadJSONL(r io.Reader) ([]Event, error) {
	var events []Event
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		ev, err := decodeLine(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return events, nil
}

func decodeLine(raw []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if ev.Kind != "" {
		return ev, nil
	}

	// No envelope: the line is a bare fill.
	var fill Fill
	if err := json.Unmarshal(raw, &fill); err != nil {
		return Event{}, fmt.Errorf("decode fill: %w", err)
	}
	return NewFill(fill), nil
}
