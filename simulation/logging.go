package simulation

import (
	"github.com/gernb/CRDT/crdt"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

// Structs

type loggingService struct {
	logger  log.Logger
	service Service
}

// Functions

// NewLoggingService wraps a provided existing
// service with the supplied logger.
func NewLoggingService(s Service, logger log.Logger) Service {

	return &loggingService{
		logger:  logger,
		service: s,
	}
}

func (s *loggingService) Name() string {
	return s.service.Name()
}

// Mutate wraps this service's Mutate
// method with added logging capabilities.
func (s *loggingService) Mutate() string {

	value := s.service.Mutate()

	level.Debug(s.logger).Log(
		"msg", "performed local write",
		"replica", s.service.Name(),
		"value", value,
		"timestamp", s.service.Register().Timestamp().String(),
	)

	return value
}

// Snapshot wraps this service's Snapshot
// method with added logging capabilities.
func (s *loggingService) Snapshot() ([]byte, error) {

	data, err := s.service.Snapshot()
	if err != nil {

		level.Warn(s.logger).Log(
			"msg", "failed to snapshot register state",
			"replica", s.service.Name(),
			"err", err,
		)
	}

	return data, err
}

// Apply wraps this service's Apply
// method with added logging capabilities.
func (s *loggingService) Apply(snapshot []byte) error {

	err := s.service.Apply(snapshot)
	if err != nil {

		level.Warn(s.logger).Log(
			"msg", "failed to apply received register state",
			"replica", s.service.Name(),
			"err", err,
		)

		return err
	}

	level.Debug(s.logger).Log(
		"msg", "merged received register state",
		"replica", s.service.Name(),
		"state", s.service.Register().String(),
	)

	return nil
}

func (s *loggingService) Register() crdt.LWWRegister[string] {
	return s.service.Register()
}
