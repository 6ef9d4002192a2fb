// Package artifacts persists per-episode stage outputs under a common root.
// Every write goes through a temp file plus rename so readers never observe
// partial artifacts.
package artifacts
