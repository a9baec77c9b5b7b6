package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSimulate_JSON(t *testing.T) {
	t.Setenv("GOSSIP_HARD_CAP", "10")

	out, err := runCLI(t, "simulate", "--turns", "60", "--seed", "5")
	require.NoError(t, err)

	var result simulationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, uint64(5), result.Seed)
	assert.Equal(t, 60, result.Stats.Turn)
	assert.LessOrEqual(t, len(result.Rumors), 10)
	assert.Equal(t, result.Stats.Rumors, len(result.Rumors))
	assert.Empty(t, result.Turns)
}

func TestSimulate_Reproducible(t *testing.T) {
	first, err := runCLI(t, "simulate", "--turns", "40", "--seed", "9")
	require.NoError(t, err)
	second, err := runCLI(t, "simulate", "--turns", "40", "--seed", "9")
	require.NoError(t, err)

	var a, b simulationResult
	require.NoError(t, json.Unmarshal([]byte(first), &a))
	require.NoError(t, json.Unmarshal([]byte(second), &b))

	// Rumor ids are random uuids; everything else must match.
	require.Len(t, b.Rumors, len(a.Rumors))
	for i := range a.Rumors {
		a.Rumors[i].ID, b.Rumors[i].ID = "", ""
	}
	for _, r := range []*simulationResult{&a, &b} {
		r.Stats.LastMaintenance.Faded = nil
		r.Stats.LastMaintenance.Archived = nil
		r.Stats.LastMaintenance.Evicted = nil
	}
	assert.Equal(t, a, b)
}

func TestSimulate_YAMLWithHistory(t *testing.T) {
	out, err := runCLI(t, "simulate", "--turns", "3", "--format", "yaml", "--history")
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &result))
	assert.Contains(t, result, "stats")
	turns, ok := result["turns"].([]any)
	require.True(t, ok)
	assert.Len(t, turns, 3)
}

func TestSimulate_InvalidFlags(t *testing.T) {
	_, err := runCLI(t, "simulate", "--format", "xml")
	assert.ErrorContains(t, err, "unsupported format")

	_, err = runCLI(t, "simulate", "--turns", "-1")
	assert.ErrorContains(t, err, "--turns must not be negative")
}

func TestSimulate_InvalidConfig(t *testing.T) {
	t.Setenv("GOSSIP_SPREAD_CHANCE", "2")

	_, err := runCLI(t, "simulate", "--turns", "1")
	assert.ErrorContains(t, err, "GOSSIP_SPREAD_CHANCE must be between 0 and 1")
}

func TestSimulate_Restore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rumors.json")
	data := `[
		{"id": "old-1", "text": "Mira hid a letter", "category": "secret", "subject": "mira", "spin": "neutral", "created_turn": 0, "known_by": ["mira"]},
		{"id": "broken", "known_by": []}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	out, err := runCLI(t, "simulate", "--turns", "0", "--restore", path)
	require.NoError(t, err)

	var result simulationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Rumors, 1)
	assert.Equal(t, "old-1", result.Rumors[0].ID)
	assert.Equal(t, "active", string(result.Rumors[0].Status))
}

func TestSimulate_RestoreMissingFile(t *testing.T) {
	_, err := runCLI(t, "simulate", "--turns", "1", "--restore", filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorContains(t, err, "failed to read restore file")
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rumormill dev")
}
