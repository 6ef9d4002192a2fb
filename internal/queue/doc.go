// Package queue persists the episode run ledger in SQLite. One row records
// each pipeline run: its source URL, the episode it resolved to, the stage
// it reached, progress fields, and any failure message. The ledger also
// enforces that at most one active run exists per episode.
package queue
