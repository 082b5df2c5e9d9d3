package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableAlignsColumns(t *testing.T) {
	tbl := NewTable("RELAY", "LATENCY")
	tbl.AddRow("https://relay-one.example.org", "42ms")
	tbl.AddRow("short", "900ms")

	out := tbl.Render()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)

	// The latency column starts at the same offset in every row.
	first := strings.Index(lines[1], "42ms")
	second := strings.Index(lines[2], "900ms")
	assert.Equal(t, first, second)
}

func TestTableShortRow(t *testing.T) {
	tbl := NewTable("A", "B", "C")
	tbl.AddRow("only")

	assert.Equal(t, 1, tbl.Len())
	assert.Contains(t, tbl.Render(), "only")
}

func TestPadR(t *testing.T) {
	assert.Equal(t, "ab   ", padR("ab", 5))
	assert.Equal(t, "abcdef", padR("abcdef", 3))
	// Styled input is measured by display width, not byte length.
	styled := StyleSuccess.Render("ok")
	assert.Equal(t, len(styled)+3, len(padR(styled, 5)))
}

func TestTruncateAddr(t *testing.T) {
	assert.Equal(t, "0xd8dA…6045", TruncateAddr("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"))
	assert.Equal(t, "0xabc", TruncateAddr("0xabc"))
}
