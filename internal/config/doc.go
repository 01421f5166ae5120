// Package config defines the format-agnostic genome configuration model,
// along with the Loader interface for reading genome and batch records from
// various file formats.
//
// The `config.Model` is the single source of truth for the registry.
// Concrete loaders, such as for HCL and YAML, are provided in separate
// packages.
package config
