// Package config handles node runtime configuration: data directory
// layout, keystore location, peer seeds, logging, and the mining switch.
// Protocol constants (proof-of-work target, retargeting interval) are
// pinned in internal/ledger/chain and are never configurable per node.
package config

import (
	"os"
	"path/filepath"
)

// Config holds a single node's runtime settings.
type Config struct {
	// Port the HTTP wire surface listens on.
	Port int

	// ID disambiguates wallet key files when running multiple nodes
	// against the same data directory (wallet[_<id>].key/.pub).
	ID string

	// DataDir is the root directory for this node's keystore.
	DataDir string

	// Seeds are peer addresses registered at startup, in addition to
	// whatever /nodes/register calls add at runtime.
	Seeds []string

	// Mining enables the background miner loop in cmd/coinnoded.
	Mining MiningConfig

	Log LogConfig
}

// MiningConfig controls whether this node produces blocks and whether it
// broadcasts submitted transactions immediately.
type MiningConfig struct {
	Enabled       bool
	AutoBroadcast bool
}

// LogConfig controls zerolog output shape.
type LogConfig struct {
	Level string
	File  string
	JSON  bool
}

// DefaultDataDir returns the platform-default data directory for node
// keystores, following the XDG-ish ~/.coinnode convention.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".coinnode"
	}
	return filepath.Join(home, ".coinnode")
}

// Default returns a Config with every field at its documented default.
func Default() *Config {
	return &Config{
		Port:    5000,
		DataDir: DefaultDataDir(),
		Mining: MiningConfig{
			Enabled:       false,
			AutoBroadcast: true,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}

// KeystoreDir returns the directory wallet key files are read from and
// written to.
func (c *Config) KeystoreDir() string {
	return c.DataDir
}

// EnsureDataDir creates the configured data directory if it doesn't
// already exist.
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0755)
}
