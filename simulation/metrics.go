package simulation

import (
	"github.com/gernb/CRDT/crdt"
	"github.com/go-kit/kit/metrics"
)

// Structs

type metricsService struct {
	service Service
	writes  metrics.Counter
	merges  metrics.Counter
}

// Functions

// NewMetricsService wraps a provided existing
// service with the supplied metrics counters.
func NewMetricsService(s Service, writes metrics.Counter, merges metrics.Counter) Service {

	return &metricsService{
		service: s,
		writes:  writes,
		merges:  merges,
	}
}

func (s *metricsService) Name() string {
	return s.service.Name()
}

// Mutate wraps this service's Mutate
// method with added metrics capabilities.
func (s *metricsService) Mutate() string {

	value := s.service.Mutate()
	s.writes.Add(1)

	return value
}

func (s *metricsService) Snapshot() ([]byte, error) {
	return s.service.Snapshot()
}

// Apply wraps this service's Apply
// method with added metrics capabilities.
func (s *metricsService) Apply(snapshot []byte) error {

	err := s.service.Apply(snapshot)
	if err != nil {
		return err
	}

	s.merges.Add(1)

	return nil
}

func (s *metricsService) Register() crdt.LWWRegister[string] {
	return s.service.Register()
}
