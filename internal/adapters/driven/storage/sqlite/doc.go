// Package sqlite implements the persistent document store on a single
// SQLite database file (modernc.org/sqlite, cgo-free).
//
// One table holds every chunk, keyed by the deterministic chunk id, with
// the embedding serialised as a little-endian float32 blob. Similarity
// search is a brute-force scan: every stored embedding is compared against
// the query embedding with cosine similarity while a fixed-size best-k
// selection is maintained. That is fine at portfolio scale (hundreds to a
// few thousand chunks); a corpus beyond that belongs behind an ANN index
// implementing the same DocumentStore interface.
//
// Concurrency relies on SQLite's own locking (WAL mode, busy timeout);
// the store adds no locking of its own.
package sqlite
