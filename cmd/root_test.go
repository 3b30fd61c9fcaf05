package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/choromap/internal/classify"
	"github.com/sells-group/choromap/internal/store"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{"render", "inspect", "palettes", "fetch", "serve", "runs"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "choromap", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRenderCommand_Flags(t *testing.T) {
	for _, name := range []string{"dataset", "boundaries", "output", "palette", "k", "scatter"} {
		assert.NotNil(t, renderCmd.Flags().Lookup(name), "render command should have --%s flag", name)
	}
}

func TestInspectCommand_Flags(t *testing.T) {
	flag := inspectCmd.Flags().Lookup("json")
	require.NotNil(t, flag, "inspect command should have --json flag")
	assert.Equal(t, "false", flag.DefValue)
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}

func TestRunsCommand_HasSubcommands(t *testing.T) {
	cmds := runsCmd.Commands()
	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	for _, name := range []string{"list", "show"} {
		assert.True(t, names[name], "expected runs subcommand %q not found", name)
	}

	limit := runsListCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "50", limit.DefValue)
}

func TestFormatPalettes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatPalettes(&buf, []string{"pink-blue", "teal-red"}))

	out := buf.String()
	assert.Contains(t, out, "pink-blue")
	assert.Contains(t, out, "teal-red")
	assert.Contains(t, out, "3x3")
	assert.Contains(t, out, "#e8e8e8")
	assert.Contains(t, out, "#3b4994")
}

func TestFormatPalette_CustomFile(t *testing.T) {
	flag := palettesCmd.Flags().Lookup("file")
	require.NotNil(t, flag, "palettes command should have --file flag")

	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	doc := "name: custom\ncolors: [\"#ffffff\", \"#ff0000\", \"#0000ff\", \"#000000\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	p, err := classify.LoadPaletteFile(path)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, formatPalette(&buf, p))

	out := buf.String()
	assert.Contains(t, out, "custom")
	assert.Contains(t, out, "2x2")
	assert.Contains(t, out, "#ff0000")
}

func TestFormatRunsList(t *testing.T) {
	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	runs := []store.Run{
		{
			ID:          "0123456789abcdef",
			DatasetPath: "data/rates.csv",
			Status:      store.RunStatusComplete,
			Joined:      56,
			Dropped:     2,
			CreatedAt:   now,
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	out := buf.String()
	assert.Contains(t, out, "01234567")
	assert.NotContains(t, out, "0123456789abcdef")
	assert.Contains(t, out, "data/rates.csv")
	assert.Contains(t, out, "complete")
	assert.Contains(t, out, "2026-05-04 12:00")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "12345678", truncateID("123456789"))
	assert.Equal(t, "short", truncateID("short"))
}

func TestApplyRenderFlags(t *testing.T) {
	orig := cfg
	t.Cleanup(func() { cfg = orig })

	cfg = testCmdConfig()
	renderDataset = "override.csv"
	renderK = 4
	t.Cleanup(func() { renderDataset = ""; renderK = 0 })

	applyRenderFlags()
	assert.Equal(t, "override.csv", cfg.Inputs.Dataset)
	assert.Equal(t, 4, cfg.Classify.K)

	// Unset flags leave config values alone.
	assert.Equal(t, "pink-blue", cfg.Classify.Palette)
	assert.True(t, strings.HasSuffix(cfg.Output.Path, "map.png"))
}
