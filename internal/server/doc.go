// Package server implements the optional status HTTP endpoint started with
// -metrics-addr. It serves Prometheus metrics, the current job states and
// results as JSON, and a liveness probe.
package server
