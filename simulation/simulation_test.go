package simulation

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/gernb/CRDT/config"
	"github.com/gernb/CRDT/crdt"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/metrics/generic"
	"github.com/stretchr/testify/assert"
)

// Functions

// TestNewSimulation executes a white-box unit
// test on implemented NewSimulation() function.
func TestNewSimulation(t *testing.T) {

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stdout))

	conf := config.Simulation{
		Replicas:     4,
		Writes:       2,
		GossipRounds: 3,
		GossipFanout: 2,
		Seed:         7,
	}

	sim := NewSimulation(logger, conf, generic.NewCounter("new_writes_total"), generic.NewCounter("new_merges_total"))

	assert.Equalf(t, 4, len(sim.replicas), "expected 4 replicas but found: %d", len(sim.replicas))

	for i, replica := range sim.replicas {

		expected := fmt.Sprintf("replica-%d", (i + 1))
		assert.Equalf(t, expected, replica.Name(), "expected replica name '%s' but found: %v", expected, replica.Name())
	}
}

// TestPeerSubset executes a white-box unit
// test on implemented peerSubset() function.
func TestPeerSubset(t *testing.T) {

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stdout))

	conf := config.Simulation{
		Replicas:     6,
		Writes:       1,
		GossipRounds: 1,
		GossipFanout: 3,
		Seed:         11,
	}

	sim := NewSimulation(logger, conf, generic.NewCounter("subset_writes_total"), generic.NewCounter("subset_merges_total"))

	for i := 0; i < conf.Replicas; i++ {

		for draw := 0; draw < 10; draw++ {

			subset := sim.peerSubset(i)
			assert.Equalf(t, conf.GossipFanout, len(subset), "expected subset of size %d but found: %d", conf.GossipFanout, len(subset))

			seen := make(map[int]bool)
			for _, j := range subset {

				assert.Equalf(t, true, (j >= 0) && (j < conf.Replicas), "expected peer index in range but found: %d", j)
				assert.Equalf(t, false, (j == i), "expected subset for %d not to contain itself", i)
				assert.Equalf(t, false, seen[j], "expected distinct peers in subset but %d appeared twice", j)

				seen[j] = true
			}
		}
	}
}

// TestSimulationConverges executes a white-box unit test on a
// full simulation run from divergence to convergence check.
func TestSimulationConverges(t *testing.T) {

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stdout))

	conf := config.Simulation{
		Replicas:     5,
		Writes:       4,
		GossipRounds: 3,
		GossipFanout: 2,
		Seed:         42,
	}

	writes := generic.NewCounter("run_writes_total")
	merges := generic.NewCounter("run_merges_total")

	sim := NewSimulation(logger, conf, writes, merges)

	err := sim.Run()
	assert.Nilf(t, err, "expected nil error for Run() but received: %v", err)

	// Every replica performed its configured writes.
	expWrites := float64(conf.Replicas * conf.Writes)
	assert.Equalf(t, expWrites, writes.Value(), "expected %v counted writes but found: %v", expWrites, writes.Value())

	// Gossip rounds deliver fanout snapshots per replica, the
	// final exchange delivers all snapshots to all replicas.
	expMerges := float64((conf.Replicas * conf.GossipFanout * conf.GossipRounds) + (conf.Replicas * conf.Replicas))
	assert.Equalf(t, expMerges, merges.Value(), "expected %v counted merges but found: %v", expMerges, merges.Value())

	// All replicas hold the observationally identical register
	// and the winner is one replica's last write.
	reference := sim.replicas[0].Register()

	for _, replica := range sim.replicas[1:] {
		assert.Equalf(t, true, crdt.Equal(replica.Register(), reference), "expected replica %s to match %s but found: %s", replica.Name(), reference, replica.Register())
	}

	assert.Equalf(t, uint64(conf.Writes), reference.Timestamp().Count(), "expected winning write count %d but found: %d", conf.Writes, reference.Timestamp().Count())
	assert.Equalf(t, true, strings.HasSuffix(reference.Value(), fmt.Sprintf("-write-%d", conf.Writes)), "expected winner to be some replica's last write but found: %v", reference.Value())
}

// TestSimulationMinimal executes a white-box unit test on the
// smallest permitted simulation of two replicas with fanout one.
func TestSimulationMinimal(t *testing.T) {

	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stdout))

	conf := config.Simulation{
		Replicas:     2,
		Writes:       1,
		GossipRounds: 1,
		GossipFanout: 1,
		Seed:         3,
	}

	sim := NewSimulation(logger, conf, generic.NewCounter("min_writes_total"), generic.NewCounter("min_merges_total"))

	err := sim.Run()
	assert.Nilf(t, err, "expected nil error for Run() but received: %v", err)

	assert.Equalf(t, true, crdt.Equal(sim.replicas[0].Register(), sim.replicas[1].Register()), "expected both replicas to converge but found: %s and %s", sim.replicas[0].Register(), sim.replicas[1].Register())
}
