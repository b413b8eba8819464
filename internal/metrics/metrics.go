// Package metrics holds Prometheus instruments that are used across the
// service.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SyncRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "countries_sync_runs_total",
			Help: "Synchronizer runs by result (ok, fetch_error, processing_error, error).",
		}, []string{"result"})

	SyncRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "countries_sync_records_total",
			Help: "Records written by the synchronizer, by outcome (created, updated).",
		}, []string{"outcome"})

	SyncDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "countries_sync_duration_seconds",
			Help:    "Wall time of a full synchronizer run.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		})

	QueryTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "countries_query_total",
			Help: "Query engine operations by kind.",
		}, []string{"op"})

	Records = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "countries_records",
			Help: "Number of country records after the last successful sync.",
		})

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "countries_http_requests_total",
			Help: "HTTP requests by method, route pattern, and status code.",
		}, []string{"method", "route", "code"})

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "countries_http_request_duration_seconds",
			Help:    "HTTP handler latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"})
)

func init() {
	prometheus.MustRegister(
		SyncRunsTotal,
		SyncRecordsTotal,
		SyncDuration,
		QueryTotal,
		Records,
		HTTPRequestsTotal,
		HTTPDuration,
	)
}
