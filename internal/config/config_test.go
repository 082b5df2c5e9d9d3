package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, int64(30), cfg.FeeTolerancePct)
	assert.Equal(t, 1500, cfg.PingGraceMS)
	assert.Equal(t, 1500*time.Millisecond, cfg.PingGrace())
	assert.Empty(t, cfg.RelayURLs)
	assert.Empty(t, cfg.OracleURL)
	assert.Equal(t, dir, cfg.Dir())
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	cfg.RPCURL = "http://localhost:8545"
	cfg.OracleURL = "https://oracle.test/gas"
	cfg.OraclePath = ".result.ProposeGasPrice"
	cfg.FeeTolerancePct = 20
	require.NoError(t, cfg.AddRelay("https://relay-1.test"))
	require.NoError(t, cfg.Save())

	reloaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8545", reloaded.RPCURL)
	assert.Equal(t, ".result.ProposeGasPrice", reloaded.OraclePath)
	assert.Equal(t, int64(20), reloaded.FeeTolerancePct)
	assert.Equal(t, []string{"https://relay-1.test"}, reloaded.RelayURLs)
}

func TestLoadCorruptConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte("{oops"), 0o600))

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestAddRelayDuplicate(t *testing.T) {
	cfg := defaults(t.TempDir())
	require.NoError(t, cfg.AddRelay("https://relay-1.test"))

	err := cfg.AddRelay("https://relay-1.test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRemoveRelay(t *testing.T) {
	cfg := defaults(t.TempDir())
	require.NoError(t, cfg.AddRelay("https://relay-1.test"))
	require.NoError(t, cfg.AddRelay("https://relay-2.test"))

	require.NoError(t, cfg.RemoveRelay("https://relay-1.test"))
	assert.Equal(t, []string{"https://relay-2.test"}, cfg.RelayURLs)

	err := cfg.RemoveRelay("https://relay-9.test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestSavedFileShape(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)
	cfg.OraclePath = ".fast"
	require.NoError(t, cfg.Save())

	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, ".fast", doc["oracle_path"])
	assert.NotContains(t, doc, "configDir", "unexported fields must not leak into the file")
}
