package crdt

import (
	"bytes"
	"fmt"

	"encoding/json"

	"github.com/pkg/errors"
	"github.com/satori/go.uuid"
)

// Structs

// Timestamp is the logical clock value that orders all writes to an
// LWW-register. It consists of a monotonic counter and a unique
// identifier breaking ties between replicas that produce the same
// count concurrently. Timestamps are never mutated in place: Tick
// derives the follow-up value and leaves its receiver untouched.
type Timestamp struct {
	count uint64
	id    uuid.UUID
}

// timestampJSON mirrors Timestamp with exported fields for the
// serialized representation defined by MarshalJSON.
type timestampJSON struct {
	Count uint64    `json:"count"`
	ID    uuid.UUID `json:"id"`
}

// Functions

// InitTimestamp returns a fresh timestamp starting at count zero
// with a new randomly generated identifier.
func InitTimestamp() Timestamp {

	return Timestamp{
		count: 0,
		id:    uuid.NewV4(),
	}
}

// Tick derives the timestamp following this one: the count advances
// by one and the identifier is carried over unchanged. The receiver
// is left untouched.
func (t Timestamp) Tick() Timestamp {

	return Timestamp{
		count: t.count + 1,
		id:    t.id,
	}
}

// Compare defines the strict total order on timestamps. It returns
// -1 if t is ordered before other, 1 if t is ordered after other,
// and 0 only if both denote the very same timestamp. Counts are
// compared first; equal counts fall back to the identifiers, so two
// concurrent writes at the same count still resolve to a definite
// winner.
func (t Timestamp) Compare(other Timestamp) int {

	if t.count < other.count {
		return -1
	}

	if t.count > other.count {
		return 1
	}

	// Counts are equal, the identifier decides. Its 16 bytes are
	// compared lexicographically, which orders identifiers the same
	// way as their canonical string form.
	return bytes.Compare(t.id.Bytes(), other.id.Bytes())
}

// Before returns true if t is ordered strictly before other.
func (t Timestamp) Before(other Timestamp) bool {
	return t.Compare(other) < 0
}

// After returns true if t is ordered strictly after other.
func (t Timestamp) After(other Timestamp) bool {
	return t.Compare(other) > 0
}

// Equal returns true if count and identifier both match, meaning t
// and other denote the same timestamp.
func (t Timestamp) Equal(other Timestamp) bool {
	return (t.count == other.count) && uuid.Equal(t.id, other.id)
}

// Count returns the number of ticks this timestamp has seen.
func (t Timestamp) Count() uint64 {
	return t.count
}

// ID returns the identifier used to break ties between equal counts.
func (t Timestamp) ID() uuid.UUID {
	return t.id
}

// String renders the count and a shortened form of the identifier
// for diagnostic output.
func (t Timestamp) String() string {

	id := t.id.String()

	return fmt.Sprintf("Timestamp { %d, %s..%s }", t.count, id[:8], id[(len(id)-4):])
}

// MarshalJSON returns the serialized representation of this
// timestamp: its count and its identifier in canonical form.
func (t Timestamp) MarshalJSON() ([]byte, error) {

	return json.Marshal(timestampJSON{
		Count: t.count,
		ID:    t.id,
	})
}

// UnmarshalJSON restores a timestamp from the representation
// produced by MarshalJSON.
func (t *Timestamp) UnmarshalJSON(data []byte) error {

	wire := timestampJSON{}

	if err := json.Unmarshal(data, &wire); err != nil {
		return errors.Wrap(err, "failed to unmarshal timestamp")
	}

	t.count = wire.Count
	t.id = wire.ID

	return nil
}
