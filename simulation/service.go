package simulation

import (
	"fmt"

	"encoding/json"

	"github.com/gernb/CRDT/crdt"
	"github.com/pkg/errors"
)

// Structs

type service struct {
	name   string
	writes int
	reg    crdt.LWWRegister[string]
}

// Interfaces

// Service defines the behaviour of one simulated replica
// holding its own copy of the shared register.
type Service interface {

	// Name returns the identifier of this replica.
	Name() string

	// Mutate performs one local write on this replica's
	// register and returns the written value.
	Mutate() string

	// Snapshot serializes this replica's register state
	// for exchange with peer replicas.
	Snapshot() ([]byte, error)

	// Apply merges a serialized register state received
	// from a peer replica into the local register.
	Apply(snapshot []byte) error

	// Register returns a copy of this replica's register.
	Register() crdt.LWWRegister[string]
}

// Functions

// NewService constructs one replica. Each replica constructs
// its own register so that its write lineage carries a unique
// identifier, which keeps all timestamps distinct.
func NewService(name string) Service {

	return &service{
		name: name,
		reg:  crdt.InitLWWRegister(name),
	}
}

func (s *service) Name() string {
	return s.name
}

func (s *service) Mutate() string {

	s.writes++
	value := fmt.Sprintf("%s-write-%d", s.name, s.writes)

	s.reg.SetValue(value)

	return value
}

func (s *service) Snapshot() ([]byte, error) {

	data, err := json.Marshal(s.reg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to snapshot register state")
	}

	return data, nil
}

func (s *service) Apply(snapshot []byte) error {

	remote, err := crdt.InitLWWRegisterFromJSON[string](snapshot)
	if err != nil {
		return errors.Wrap(err, "failed to apply received register state")
	}

	s.reg.Merge(remote)

	return nil
}

func (s *service) Register() crdt.LWWRegister[string] {
	return s.reg
}
