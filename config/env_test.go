package config_test

import (
	"testing"

	"github.com/gernb/CRDT/config"
)

// Functions

// TestLoadEnv executes a black-box test on the
// implemented functionalities to load a .env file.
func TestLoadEnv(t *testing.T) {

	// Loading a missing .env file should fail.
	_, err := config.LoadEnv("does-not-exist.env")
	if err == nil {
		t.Fatal("[config.TestLoadEnv] Expected fail while loading does-not-exist.env but received 'nil' error.")
	}

	// Now load the provided test file.
	env, err := config.LoadEnv("test.env")
	if err != nil {
		t.Fatalf("[config.TestLoadEnv] Expected success while loading test.env but received: '%s'\n", err.Error())
	}

	// Check for test success.
	if env.PrometheusAddr != ":9199" {
		t.Fatalf("[config.TestLoadEnv] Expected '%s' but received '%s'\n", ":9199", env.PrometheusAddr)
	}

	if env.LogLevel != "warn" {
		t.Fatalf("[config.TestLoadEnv] Expected '%s' but received '%s'\n", "warn", env.LogLevel)
	}
}
