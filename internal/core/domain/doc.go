// Package domain contains the core business entities and errors for the
// portfolio knowledge assistant.
//
// The domain is deliberately free of infrastructure dependencies: stored
// chunks, search results, answers and settings are plain data types, and
// failures are expressed as sentinel errors that adapters attach to their
// underlying causes.
package domain
