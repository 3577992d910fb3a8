package crdt

import (
	"fmt"

	"encoding/json"

	"github.com/pkg/errors"
)

// Structs

// state carries the wrapped value of a register together with the
// timestamp of the write that produced it. Mutations replace the
// whole record in one step, never single fields.
type state[T any] struct {
	value     T
	timestamp Timestamp
}

// LWWRegister conforms to the specification of a state-based
// last-writer-wins register defined by Shapiro, Preguiça, Baquero
// and Zawirski. It wraps a single value of type T and resolves
// concurrent writes by keeping the one carrying the greater
// timestamp.
type LWWRegister[T any] struct {
	state state[T]
}

// registerJSON mirrors the register state with exported fields for
// the serialized representation defined by MarshalJSON.
type registerJSON[T any] struct {
	Value     T         `json:"value"`
	Timestamp Timestamp `json:"timestamp"`
}

// Functions

// InitLWWRegister returns a new register wrapping the supplied
// initial value at a fresh timestamp of count zero. Literal
// construction works through type inference: InitLWWRegister(3.14),
// InitLWWRegister(1), InitLWWRegister(false), InitLWWRegister("hi")
// yield registers of float64, int, bool, and string.
func InitLWWRegister[T any](value T) LWWRegister[T] {

	return LWWRegister[T]{
		state: state[T]{
			value:     value,
			timestamp: InitTimestamp(),
		},
	}
}

// InitLWWRegisterFromJSON restores a register from the serialized
// representation produced by MarshalJSON.
func InitLWWRegisterFromJSON[T any](data []byte) (LWWRegister[T], error) {

	reg := LWWRegister[T]{}

	if err := reg.UnmarshalJSON(data); err != nil {
		return LWWRegister[T]{}, err
	}

	return reg, nil
}

// Value returns the value this register currently wraps.
func (r LWWRegister[T]) Value() T {
	return r.state.value
}

// SetValue assigns the supplied value to this register. The whole
// internal state record is replaced with the new value and the
// ticked timestamp, so the timestamp strictly advances on every
// assignment.
func (r *LWWRegister[T]) SetValue(value T) {

	r.state = state[T]{
		value:     value,
		timestamp: r.state.timestamp.Tick(),
	}
}

// Timestamp returns the timestamp of the write that produced the
// register's current value.
func (r LWWRegister[T]) Timestamp() Timestamp {
	return r.state.timestamp
}

// Merged returns the winner between r and other: the operand whose
// timestamp is ordered after the other one's. The wrapped values
// take no part in the decision and the losing value is discarded
// entirely. Neither operand is mutated. Equal timestamps only occur
// between replicas of the very same write, so the receiver then
// stands in for both. Selecting the maximum of a strict total order
// is commutative, associative, and idempotent, which is what lets
// replicas merge in any order, grouping, and repetition and still
// converge.
func (r LWWRegister[T]) Merged(other LWWRegister[T]) LWWRegister[T] {

	if r.state.timestamp.Compare(other.state.timestamp) >= 0 {
		return r
	}

	return other
}

// Merge folds the state of other into r, so that r afterwards holds
// the result of Merged. other is left untouched.
func (r *LWWRegister[T]) Merge(other LWWRegister[T]) {
	*r = r.Merged(other)
}

// String renders the wrapped value and the timestamp of this
// register for diagnostic output.
func (r LWWRegister[T]) String() string {
	return fmt.Sprintf("LWWRegister<%T> { %v, %s }", r.state.value, r.state.value, r.state.timestamp)
}

// MarshalJSON returns the serialized representation of this
// register: the wrapped value followed by its timestamp. Whether
// the value itself serializes is delegated entirely to T's own
// encoding contract.
func (r LWWRegister[T]) MarshalJSON() ([]byte, error) {

	data, err := json.Marshal(registerJSON[T]{
		Value:     r.state.value,
		Timestamp: r.state.timestamp,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal LWW-register")
	}

	return data, nil
}

// UnmarshalJSON restores a register from the representation
// produced by MarshalJSON.
func (r *LWWRegister[T]) UnmarshalJSON(data []byte) error {

	wire := registerJSON[T]{}

	if err := json.Unmarshal(data, &wire); err != nil {
		return errors.Wrap(err, "failed to unmarshal LWW-register")
	}

	r.state = state[T]{
		value:     wire.Value,
		timestamp: wire.Timestamp,
	}

	return nil
}

// Equal returns true if both registers hold the same value at the
// same timestamp, meaning they are replicas in identical states. It
// exists for value types supporting comparison; registers of
// comparable T are themselves comparable and may serve as map keys
// directly.
func Equal[T comparable](a LWWRegister[T], b LWWRegister[T]) bool {
	return (a.state.value == b.state.value) && a.state.timestamp.Equal(b.state.timestamp)
}
