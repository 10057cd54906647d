// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): persistent storage, the embedding provider,
// the language model, the web-search collaborator and file text extractors.
//
// Core services depend only on these interfaces; concrete adapters live
// under internal/adapters/driven and are injected at startup, so tests can
// substitute in-memory or fake implementations.
package driven
