// Package config loads and validates the label-sync configuration.
//
// Values are merged from three layers, later layers filling gaps left by
// earlier ones: environment variables (caarlos0/env tags), command-line
// flags, and an optional JSON file named by the CONFIG variable or the
// -c/-config flag. Merging is done with mergo through a small builder; the
// merged result is validated before use.
package config
