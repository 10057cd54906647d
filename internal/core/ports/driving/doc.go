// Package driving provides interfaces consumed by entry points
// (primary/inbound ports): the CLI today, an HTTP layer tomorrow.
package driving
