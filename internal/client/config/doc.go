// Package config loads authctl settings from defaults, an optional JSON file,
// the environment and command-line flags, in that order of precedence.
package config
