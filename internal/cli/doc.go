// Package cli parses the genhub command line into an app.Config and maps
// failures onto process exit codes.
package cli
