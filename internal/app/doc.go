// Package app contains the core application logic. It resolves the
// requested genomes, drives the per-genome builds and the cross-genome
// aggregation, and reports the outcome, decoupled from any specific
// entrypoint like a CLI.
package app
