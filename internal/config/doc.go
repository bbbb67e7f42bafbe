// Package config defines the building controller settings and provides helpers
// to load, validate and save them in YAML format.
package config
