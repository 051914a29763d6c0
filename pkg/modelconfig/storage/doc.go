// Package storage provides ConfigStore backends: a SQLite-backed store
// for production use and an in-memory store for tests and development.
// Both implement the same activation semantics, including the atomic
// publish transaction and the highest-id resolution of the
// multiple-active anomaly.
package storage
