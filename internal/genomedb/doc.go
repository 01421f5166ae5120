// Package genomedb manages the on-disk database of a single genome: where
// its files live under the working directory and how raw data is
// downloaded, pre-processed into canonical form and cleaned up again.
//
// Every genome owns the directory <workdir>/<label>. Raw downloads keep the
// base name of their source location; processed and derived files are named
// after the label (see the Suffix constants).
package genomedb
