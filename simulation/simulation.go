package simulation

import (
	"fmt"
	"sync"
	"time"

	"math/rand"

	"github.com/gernb/CRDT/config"
	"github.com/gernb/CRDT/crdt"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/go-kit/kit/metrics"
)

// Structs

// Simulation bundles a set of independently writing replicas
// with the gossip exchange that reconciles them afterwards.
type Simulation struct {
	logger   log.Logger
	conf     config.Simulation
	rng      *rand.Rand
	replicas []Service
}

// Functions

// NewSimulation constructs the configured number of replicas,
// each wrapped with logging and metrics capabilities, and
// prepares the seeded randomness driving the gossip exchange.
func NewSimulation(logger log.Logger, conf config.Simulation, writes metrics.Counter, merges metrics.Counter) *Simulation {

	seed := conf.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sim := &Simulation{
		logger:   logger,
		conf:     conf,
		rng:      rand.New(rand.NewSource(seed)),
		replicas: make([]Service, conf.Replicas),
	}

	for i := 0; i < conf.Replicas; i++ {

		var replica Service
		replica = NewService(fmt.Sprintf("replica-%d", (i + 1)))
		replica = NewLoggingService(replica, logger)
		replica = NewMetricsService(replica, writes, merges)

		sim.replicas[i] = replica
	}

	level.Info(logger).Log(
		"msg", "simulation prepared",
		"replicas", conf.Replicas,
		"writes_per_replica", conf.Writes,
		"gossip_rounds", conf.GossipRounds,
		"gossip_fanout", conf.GossipFanout,
		"seed", seed,
	)

	return sim
}

// Run executes the demonstration: a divergence phase of
// concurrent uncoordinated writes, randomized gossip rounds,
// one final full state exchange, and the convergence check.
func (sim *Simulation) Run() error {

	sim.diverge()

	for round := 1; round <= sim.conf.GossipRounds; round++ {

		err := sim.gossip(round)
		if err != nil {
			return err
		}
	}

	err := sim.exchangeAll()
	if err != nil {
		return err
	}

	return sim.verifyConverged()
}

// diverge lets every replica perform its local writes
// concurrently. No synchronization guards the registers
// because no register is shared between replicas.
func (sim *Simulation) diverge() {

	var wg sync.WaitGroup

	for _, replica := range sim.replicas {

		wg.Add(1)

		go func(r Service) {

			defer wg.Done()

			for i := 0; i < sim.conf.Writes; i++ {
				r.Mutate()
			}
		}(replica)
	}

	wg.Wait()

	level.Info(sim.logger).Log(
		"msg", "divergence phase done",
		"replicas", len(sim.replicas),
		"writes_per_replica", sim.conf.Writes,
	)
}

// gossip runs one exchange round. Every replica merges the
// snapshots of a randomly drawn peer subset. All snapshots are
// collected up front so that the round works on one consistent
// cut of the replica states.
func (sim *Simulation) gossip(round int) error {

	snapshots, err := sim.collectSnapshots()
	if err != nil {
		return err
	}

	for i, replica := range sim.replicas {

		for _, j := range sim.peerSubset(i) {

			err := replica.Apply(snapshots[j])
			if err != nil {
				return err
			}
		}
	}

	level.Debug(sim.logger).Log(
		"msg", "gossip round done",
		"round", round,
	)

	return nil
}

// peerSubset draws the distinct peers replica i hears
// from in one gossip round.
func (sim *Simulation) peerSubset(i int) []int {

	idxs := make([]int, 0, (len(sim.replicas) - 1))

	for j := range sim.replicas {

		if j != i {
			idxs = append(idxs, j)
		}
	}

	sim.rng.Shuffle(len(idxs), func(a int, b int) {
		idxs[a], idxs[b] = idxs[b], idxs[a]
	})

	return idxs[:sim.conf.GossipFanout]
}

// collectSnapshots serializes the current register
// state of every replica.
func (sim *Simulation) collectSnapshots() ([][]byte, error) {

	snapshots := make([][]byte, len(sim.replicas))

	for i, replica := range sim.replicas {

		data, err := replica.Snapshot()
		if err != nil {
			return nil, err
		}

		snapshots[i] = data
	}

	return snapshots, nil
}

// exchangeAll delivers every replica's snapshot to every
// replica, its own one included. The self delivery is a
// no-op because merging is idempotent. After this exchange
// all replicas have seen all states no matter how the
// random gossip subsets fell.
func (sim *Simulation) exchangeAll() error {

	snapshots, err := sim.collectSnapshots()
	if err != nil {
		return err
	}

	for _, replica := range sim.replicas {

		for _, snapshot := range snapshots {

			err := replica.Apply(snapshot)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// verifyConverged checks that every replica ended up in an
// observationally identical state and reports the write that
// won the reconciliation.
func (sim *Simulation) verifyConverged() error {

	reference := sim.replicas[0].Register()

	for _, replica := range sim.replicas[1:] {

		if crdt.Equal(replica.Register(), reference) != true {
			return fmt.Errorf("replica %s diverged: %s does not match %s", replica.Name(), replica.Register(), reference)
		}
	}

	level.Info(sim.logger).Log(
		"msg", "all replicas converged",
		"replicas", len(sim.replicas),
		"winner", reference.Value(),
		"timestamp", reference.Timestamp().String(),
	)

	return nil
}
