package config

import "os"

// ExpandEnv expands environment variables in pipeline.yaml content before it
// is parsed, using Go's standard shell-style ${VAR}/$VAR syntax. Used to keep
// secrets such as the analytics backend's API token env-var name out of the
// committed config file.
//
// Missing variables expand to empty string; the validator catches fields
// that end up empty as a result.
func ExpandEnv(data []byte) []byte {
	expanded := os.ExpandEnv(string(data))
	return []byte(expanded)
}
