// Package logging wires slog with the handlers used across the daemon and
// CLI: a human-oriented console handler and a JSON handler for log files.
// It also defines the standardized field names so episode, stage, and
// correlation identifiers look the same in every record.
package logging
