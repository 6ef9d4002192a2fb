// Package textutil provides small text helpers shared across the pipeline:
// episode slug derivation, filename sanitizing, and word counting for the
// host-guess heuristic.
package textutil
