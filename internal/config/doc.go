// Package config manages bruni's layered configuration.
//
// Effective settings merge four layers, later layers winning:
// built-in defaults, the JSON config file in the platform config
// directory, BRUNI_* environment variables, and CLI flag overrides.
package config
