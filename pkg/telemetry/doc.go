// Package telemetry groups the observability subpackages.
//
// The metrics subpackage exposes the Prometheus collector and scrape
// handler. All series carry the metaweb_ prefix and keep label
// cardinality bounded: request paths are route patterns, statuses are
// classes (2xx, 4xx), never raw values.
package telemetry
