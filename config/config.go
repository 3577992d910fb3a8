package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Structs

// Config holds all information parsed from
// supplied config file.
type Config struct {
	Simulation   Simulation
	Verification Verification
}

// Simulation configures the replica convergence
// demonstration run by the root binary.
type Simulation struct {
	Replicas       int
	Writes         int
	GossipRounds   int
	GossipFanout   int
	Seed           int64
	PrometheusAddr string
}

// Verification configures the randomized merge-law
// harness run by the root binary.
type Verification struct {
	Cases int
	Seed  int64
}

// Functions

// LoadConfig takes in the path to the main config file
// in TOML syntax and places the values from the file in
// the corresponding struct.
func LoadConfig(configFile string) (*Config, error) {

	conf := new(Config)

	// Parse values from TOML file into struct.
	_, err := toml.DecodeFile(configFile, conf)
	if err != nil {
		return nil, fmt.Errorf("failed to read in TOML config file at '%s' with: %v", configFile, err)
	}

	// A demonstration needs at least two replicas,
	// otherwise no concurrent writes can diverge.
	if conf.Simulation.Replicas < 2 {
		return nil, fmt.Errorf("simulation needs at least two replicas")
	}

	// Each replica has to perform at least one write so
	// that there is a state worth reconciling.
	if conf.Simulation.Writes < 1 {
		return nil, fmt.Errorf("simulation needs at least one write per replica")
	}

	if conf.Simulation.GossipRounds < 1 {
		return nil, fmt.Errorf("simulation needs at least one gossip round")
	}

	// Each gossip round contacts a subset of peers. The
	// subset has to be non-empty and cannot exceed the
	// number of available peers.
	if conf.Simulation.GossipFanout < 1 {
		return nil, fmt.Errorf("simulation needs a gossip fanout of at least one peer")
	}

	if conf.Simulation.GossipFanout > (conf.Simulation.Replicas - 1) {
		return nil, fmt.Errorf("gossip fanout cannot exceed the number of peers")
	}

	if conf.Verification.Cases < 1 {
		return nil, fmt.Errorf("verification needs at least one case")
	}

	return conf, nil
}
