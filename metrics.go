package main

import (
	"net/http"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/discard"
	"github.com/go-kit/kit/metrics/prometheus"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RegisterMetrics struct {
	Simulation *SimulationMetrics
}

type SimulationMetrics struct {
	Writes metrics.Counter
	Merges metrics.Counter
}

func NewRegisterMetrics(prometheusAddr string) *RegisterMetrics {

	m := &RegisterMetrics{}

	if prometheusAddr == "" {
		m.Simulation = &SimulationMetrics{
			Writes: discard.NewCounter(),
			Merges: discard.NewCounter(),
		}
	} else {
		m.Simulation = &SimulationMetrics{
			Writes: prometheus.NewCounterFrom(prom.CounterOpts{
				Namespace: "crdt",
				Subsystem: "simulation",
				Name:      "writes_total",
				Help:      "Number of local register writes",
			}, nil),
			Merges: prometheus.NewCounterFrom(prom.CounterOpts{
				Namespace: "crdt",
				Subsystem: "simulation",
				Name:      "merges_total",
				Help:      "Number of applied register merges",
			}, nil),
		}
	}

	return m
}

func runPromHTTP(logger log.Logger, addr string) {

	if addr == "" {
		level.Debug(logger).Log("msg", "prometheus addr is empty, not exposing prometheus metrics")
		return
	}

	http.Handle("/metrics", promhttp.Handler())

	level.Info(logger).Log("msg", "prometheus handler listening", "addr", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		level.Warn(logger).Log("msg", "failed to serve prometheus metrics", "err", err)
	}
}
