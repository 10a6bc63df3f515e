// Package config loads the demo CLI's connection settings from an optional
// YAML file, the way the teacher's config.Load does for its console-server
// daemon (SPEC_FULL.md 4.13): a struct with yaml tags, defaults applied
// before unmarshal, flags layered on top by the caller.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the demo CLI's on-disk configuration. Every field can also be
// overridden by a command-line flag in cmd/ipmi-cli.
type Config struct {
	BMC        BMCConfig        `yaml:"bmc"`
	Request    RequestConfig    `yaml:"request"`
	StatusHTTP StatusHTTPConfig `yaml:"status_http"`
}

// BMCConfig names the peer and credentials EstablishConnection needs.
type BMCConfig struct {
	Address     string        `yaml:"address"`
	Username    string        `yaml:"username"`
	Password    string        `yaml:"password"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
}

// RequestConfig is the single raw request the demo CLI issues.
type RequestConfig struct {
	NetFn   uint8  `yaml:"net_fn"`
	Command uint8  `yaml:"command"`
	DataHex string `yaml:"data_hex"`
}

// StatusHTTPConfig controls the optional statusserver.Server.
type StatusHTTPConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Load reads and parses path, applying defaults first the way the
// teacher's config.Load does (zero-value fields in the file fall back to
// these).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a Config with the same baseline values New/EstablishConnection
// use when no flag or file overrides them.
func Default() *Config {
	return &Config{
		BMC: BMCConfig{
			ReadTimeout: 20 * time.Second,
		},
		StatusHTTP: StatusHTTPConfig{
			Addr: "127.0.0.1:8080",
		},
	}
}
