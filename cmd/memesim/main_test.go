package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MemeSim/internal/model"
	"MemeSim/internal/recorder"
	"MemeSim/internal/simulator"
)

// execute runs the root command against an isolated config file.
func execute(t *testing.T, cfgYAML string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	cfgYAML += "\ndatabase:\n  sqlite_path: " + filepath.Join(dir, "memesim.db") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgYAML), 0o644))

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", cfgPath, "--log-level", "error"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestRunCommandText(t *testing.T) {
	chartPath := filepath.Join(t.TempDir(), "chart.png")
	out, err := execute(t, "", "run", "--hours", "200", "--seed", "7", "--chart", chartPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Expected Value per Meme: 0.0070 $SOL\n"))

	info, err := os.Stat(chartPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRunCommandJSONOverridesOnlySetFlags(t *testing.T) {
	cfg := "simulation:\n  capital_per_asset: 0.02\n  long_failure_rate: 0.5\n"
	out, err := execute(t, cfg, "run", "--json", "--no-record", "--chart", "",
		"--hours", "100", "--seed", "3", "--short-fail", "1")
	require.NoError(t, err)

	var got runOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, uint64(3), got.Seed)
	assert.Equal(t, model.Params{
		CapitalPerAsset:   0.02,
		InitialCapital:    1,
		ShortFailureRate:  1,
		LongFailureRate:   0.5,
		SuccessMultiplier: 20,
		TimeHorizonHours:  100,
	}, got.Params)
	assert.Equal(t, 0.0, got.ExpectedValuePerAsset)
	assert.Equal(t, 5, got.Summary.Purchases)
	assert.Equal(t, 0, got.Summary.Success)
	assert.Empty(t, got.ChartPath)
}

func TestRunCommandRecords(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runs.db")
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("database:\n  sqlite_path: "+dbPath+"\n"), 0o644))

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"--config", cfgPath, "--log-level", "error",
		"run", "--hours", "48", "--seed", "11", "--chart", ""})
	require.NoError(t, root.Execute())

	rec, err := recorder.NewSQLiteRecorder(dbPath)
	require.NoError(t, err)
	defer rec.Close()
	rows, err := rec.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, recorder.SourceCLI, rows[0].Source)
	assert.Equal(t, uint64(11), rows[0].Seed)
}

func TestOpenRecorderCreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "memesim.db")
	rec := openRecorder(path, false)
	defer rec.Close()

	_, ok := rec.(*recorder.SQLiteRecorder)
	assert.True(t, ok, "expected sqlite recorder, got %T", rec)
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestRunCommandRejectsInvalidParams(t *testing.T) {
	_, err := execute(t, "", "run", "--no-record", "--chart", "", "--short-fail", "1.5")
	require.Error(t, err)
	assert.True(t, errors.Is(err, simulator.ErrInvalidConfiguration))
}

func TestBatchCommandJSON(t *testing.T) {
	out, err := execute(t, "", "batch", "--json", "--no-record",
		"--trials", "6", "--workers", "2", "--hours", "100", "--seed", "5")
	require.NoError(t, err)

	var got model.BatchSummary
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 6, got.Trials)
	assert.Equal(t, uint64(5), got.Seed)
}

func TestServeRequiresTelegram(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	_, err := execute(t, "", "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram.bot_token is required")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "memesim "+version)
}
