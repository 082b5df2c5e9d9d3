package e2e_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary before all E2E tests.
	tmp, err := os.MkdirTemp("", "relayctl-e2e-test")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmp)

	binaryPath = filepath.Join(tmp, "relayctl")
	// Build from the module root (two levels up from test/e2e/).
	moduleRoot, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		panic(err)
	}
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Dir = moduleRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("build failed: " + string(out))
	}

	os.Exit(m.Run())
}

func runCLI(t *testing.T, configDir string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), "RELAYCTL_CONFIG_DIR="+configDir)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestVersionFlag(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "relayctl")
	assert.Contains(t, out, "1.0.0")
}

func TestHelpCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "relayctl")
	lower := strings.ToLower(out)
	assert.Contains(t, lower, "relay")
	assert.Contains(t, lower, "gas")
	assert.Contains(t, lower, "wallet")
	assert.Contains(t, lower, "send")
}

func TestInitSeedsConfig(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "init",
		"--rpc-url", "https://rpc.example.org",
		"--relay", "https://relay-a.example.org",
		"--relay", "https://relay-b.example.org")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "relay", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "relay-a.example.org")
	assert.Contains(t, out, "relay-b.example.org")
}

func TestRelayAddListRemove(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, dir, "relay", "add", "https://relay.example.org")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "relay", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "relay.example.org")

	_, err = runCLI(t, dir, "relay", "remove", "https://relay.example.org")
	require.NoError(t, err)

	out, err = runCLI(t, dir, "relay", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "relay.example.org")
}

func TestRelayAddDuplicate(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "relay", "add", "https://relay.example.org")
	require.NoError(t, err)

	_, err = runCLI(t, dir, "relay", "add", "https://relay.example.org")
	assert.Error(t, err)
}

func TestConfigSetAndShow(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, dir, "config", "set", "fee-tolerance", "45")
	require.NoError(t, err)
	_, err = runCLI(t, dir, "config", "set", "oracle-path", ".result.ProposeGasPrice")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "45%")
	assert.Contains(t, out, ".result.ProposeGasPrice")
}

func TestConfigGetSingleValue(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "config", "set", "rpc-url", "https://rpc.example.org")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "config", "get", "rpc-url")
	require.NoError(t, err)
	assert.Equal(t, "https://rpc.example.org", strings.TrimSpace(out))
}

func TestConfigSetInvalidKey(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "config", "set", "nonsense", "1")
	assert.Error(t, err)
}

func TestConfigSetInvalidTolerance(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "config", "set", "fee-tolerance", "lots")
	assert.Error(t, err)
}

func TestConfigPath(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, dir)
}

func TestSendRequiresWallet(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "config", "set", "rpc-url", "http://127.0.0.1:1")
	require.NoError(t, err)
	_, err = runCLI(t, dir, "relay", "add", "https://relay.example.org")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "send", "0x000000000000000000000000000000000000dEaD")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(out), "wallet")
}

func TestSendRejectsBadAddress(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "send", "not-an-address")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(out), "invalid recipient")
}

func TestPingWithoutRelays(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "relay", "ping")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(out), "no relays")
}

func TestUnknownCommandShowsError(t *testing.T) {
	dir := t.TempDir()
	out, _ := runCLI(t, dir, "unknowncommand")
	assert.Contains(t, strings.ToLower(out), "unknown command")
}
