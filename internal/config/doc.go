// Package config loads printdeck's console configuration from
// ~/.config/printdeck/config.toml.
package config
