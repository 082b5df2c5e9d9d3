// Package config persists relayctl settings as JSON under a dot directory.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"
)

const (
	defaultTolerancePct  = 30
	defaultPingGraceMS   = 1500
	defaultWatchInterval = 10

	configFile  = "config.json"
	walletsFile = "wallets.json"
)

// Config holds all relayctl configuration.
type Config struct {
	RPCURL          string   `json:"rpc_url"`           // EVM node used for nonces, fallback fees and chain id
	RelayURLs       []string `json:"relay_urls"`        // candidate relay endpoints
	OracleURL       string   `json:"oracle_url"`        // gas price oracle; empty disables the oracle
	OraclePath      string   `json:"oracle_path"`       // path expression into the oracle response, e.g. .result.ProposeGasPrice
	FeeTolerancePct int64    `json:"fee_tolerance_pct"` // max % a relay may push fees above desired
	PingGraceMS     int      `json:"ping_grace_ms"`     // extra wait after the first relay answers
	WatchInterval   int      `json:"watch_interval"`    // seconds between relay status refreshes
	DefaultWallet   string   `json:"default_wallet"`

	// internal: config dir path used for Save()
	configDir string
}

// PingGrace returns the configured grace period as a duration.
func (c *Config) PingGrace() time.Duration {
	return time.Duration(c.PingGraceMS) * time.Millisecond
}

// Load reads config from dir (or creates defaults). dir defaults to ~/.relayctl.
func Load(dir string) (*Config, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("could not determine home dir: %w", err)
		}
		dir = filepath.Join(home, ".relayctl")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	path := filepath.Join(dir, configFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.configDir = dir
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.configDir, configFile), data, 0o600)
}

// AddRelay registers a candidate relay URL.
func (c *Config) AddRelay(url string) error {
	if slices.Contains(c.RelayURLs, url) {
		return fmt.Errorf("relay %s already registered", url)
	}
	c.RelayURLs = append(c.RelayURLs, url)
	return nil
}

// RemoveRelay unregisters a relay URL.
func (c *Config) RemoveRelay(url string) error {
	idx := slices.Index(c.RelayURLs, url)
	if idx == -1 {
		return fmt.Errorf("relay %s not registered", url)
	}
	c.RelayURLs = slices.Delete(c.RelayURLs, idx, idx+1)
	return nil
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// WalletsPath returns the path of the wallet metadata file.
func (c *Config) WalletsPath() string {
	return filepath.Join(c.configDir, walletsFile)
}

func defaults(dir string) *Config {
	return &Config{
		FeeTolerancePct: defaultTolerancePct,
		PingGraceMS:     defaultPingGraceMS,
		WatchInterval:   defaultWatchInterval,
		configDir:       dir,
	}
}
