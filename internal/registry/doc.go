// Package registry resolves genome and batch labels to genome records.
//
// The registry merges a built-in genome set, embedded from genomes/*.yml,
// with user-supplied records read from configuration directories through
// any number of config.Loader implementations. A user label may never shadow
// a built-in one, and every batch member must resolve to a known genome.
// Resolution errors are configuration errors and are reported before any
// genome is built.
package registry
