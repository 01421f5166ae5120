// Package coordinator runs a requested subset of the build stages for a
// single genome, always in catalog order, stopping at the first failure.
//
// The coordinator holds no per-genome state; one instance is shared by every
// worker of the executor.
package coordinator
