package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Structs

// Env holds information specific to the system where
// the demonstration binary is deployed. This enables
// host adaptions without needing to maintain multiple
// config files. Use an .env file to override the
// metrics address and log level per host.
type Env struct {
	PrometheusAddr string
	LogLevel       string
}

// Functions

// LoadEnv reads in all values defined in the supplied
// .env file and returns the recognized overrides.
func LoadEnv(envFile string) (*Env, error) {

	// Load environment file.
	err := godotenv.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read in .env file at '%s' with: %v", envFile, err)
	}

	env := new(Env)

	// Fill variables from .env into struct.
	env.PrometheusAddr = os.Getenv("CRDT_PROMETHEUS_ADDR")
	env.LogLevel = os.Getenv("CRDT_LOG_LEVEL")

	return env, nil
}
