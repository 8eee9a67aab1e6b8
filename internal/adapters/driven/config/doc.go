// Package config holds the value conversions shared by the ConfigStore
// adapters. Values arrive either from TOML (int64, float64, []any) or from
// Go callers (int, []string); both shapes are accepted.
package config
