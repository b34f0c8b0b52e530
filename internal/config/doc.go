// Package config loads and validates groundstation configuration.
//
// Configuration is YAML with ${VAR} environment substitution. Optional fields
// get defaults via LoadWithDefaults; LoadAndValidate is the entry point used
// by the binaries.
package config
