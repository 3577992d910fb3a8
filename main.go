package main

import (
	"flag"
	"os"
	"runtime"
	"strings"

	"github.com/gernb/CRDT/config"
	"github.com/gernb/CRDT/simulation"
	"github.com/gernb/CRDT/verification"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

// Functions

// initLogger initializes a JSON gokit-logger set
// to the according log level supplied via cli flag.
func initLogger(loglevel string) log.Logger {

	logger := log.NewJSONLogger(log.NewSyncWriter(os.Stdout))
	logger = log.With(logger,
		"ts", log.DefaultTimestampUTC,
		"caller", log.DefaultCaller,
	)

	switch strings.ToLower(loglevel) {
	case "info":
		logger = level.NewFilter(logger, level.AllowInfo())
	case "warn":
		logger = level.NewFilter(logger, level.AllowWarn())
	case "error":
		logger = level.NewFilter(logger, level.AllowError())
	default:
		logger = level.NewFilter(logger, level.AllowDebug())
	}

	return logger
}

func main() {

	// Set CPUs usable to all available.
	runtime.GOMAXPROCS(runtime.NumCPU())

	// Parse command-line flag that defines a config path.
	configFlag := flag.String("config", "config.toml", "Provide path to configuration file in TOML syntax.")
	envFlag := flag.String("env", ".env", "Provide path to a file in .env syntax overriding host specific values.")
	simulateFlag := flag.Bool("simulate", false, "Append this flag to run the replica convergence simulation.")
	verifyFlag := flag.Bool("verify", false, "Append this flag to run the randomized merge law verification.")
	loglevelFlag := flag.String("loglevel", "debug", "This flag sets the default logging level.")
	flag.Parse()

	logger := initLogger(*loglevelFlag)

	// Read configuration from file.
	conf, err := config.LoadConfig(*configFlag)
	if err != nil {
		level.Error(logger).Log(
			"msg", "failed to load the config", "err", err,
		)
		os.Exit(1)
	}

	// Apply optional host specific overrides from an .env
	// file. A missing file keeps the configured values.
	env, err := config.LoadEnv(*envFlag)
	if err != nil {
		level.Debug(logger).Log(
			"msg", "no .env overrides loaded",
			"err", err,
		)
	} else {

		if env.PrometheusAddr != "" {
			conf.Simulation.PrometheusAddr = env.PrometheusAddr
		}

		if env.LogLevel != "" {
			logger = initLogger(env.LogLevel)
		}
	}

	// Initialize and run one mode of this binary
	// based on passed command line flag.
	if *simulateFlag {

		metrics := NewRegisterMetrics(conf.Simulation.PrometheusAddr)
		go runPromHTTP(logger, conf.Simulation.PrometheusAddr)

		// Initialize simulation.
		sim := simulation.NewSimulation(logger, conf.Simulation, metrics.Simulation.Writes, metrics.Simulation.Merges)

		// Run through all phases up to the convergence check.
		err = sim.Run()
		if err != nil {
			level.Error(logger).Log(
				"msg", "failed to drive the replicas to convergence",
				"err", err,
			)
			os.Exit(2)
		}
	} else if *verifyFlag {

		// Initialize verifier.
		verifier := verification.NewVerifier(logger, conf.Verification)

		// Run through all configured cases.
		err = verifier.Run()
		if err != nil {
			level.Error(logger).Log(
				"msg", "failed to verify the merge laws",
				"err", err,
			)
			os.Exit(3)
		}
	} else {
		// If no flags were specified, print usage
		// and return with failure value.
		flag.Usage()
		os.Exit(4)
	}
}
