package cmd

import (
	"bytes"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradesim/config"
	"github.com/rustyeddy/tradesim/sim"
)

var runIDPattern = regexp.MustCompile(`Run ID: (\S+)`)

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func writeConfig(t *testing.T, mutate func(*config.Config)) string {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Batch.Sessions = 50
	cfg.Sweep.Steps = 4
	cfg.Journal.DBPath = filepath.Join(dir, "journal.sqlite")
	if mutate != nil {
		mutate(cfg)
	}

	path := filepath.Join(dir, "sim.yaml")
	require.NoError(t, cfg.SaveToFile(path))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tradesim version "+version)
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simulation.yaml")

	out, err := execute(t, "config", "init", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")

	out, err = execute(t, "config", "validate", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration valid")
	assert.Contains(t, out, "Journal: sqlite")
}

func TestConfigValidateRejectsBadFile(t *testing.T) {
	path := writeConfig(t, func(c *config.Config) {
		c.Simulation.WinProbability = 2
	})

	_, err := execute(t, "config", "validate", "-f", path)
	assert.ErrorIs(t, err, sim.ErrConfiguration)
}

func TestSessionJournaled(t *testing.T) {
	path := writeConfig(t, nil)

	out, err := execute(t, "session", "-f", path, "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Session Result")
	assert.Contains(t, out, "Run ID:")

	out, err = execute(t, "journal", "runs", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "session")
	assert.Contains(t, out, "after")
}

func TestBatchNoJournal(t *testing.T) {
	path := writeConfig(t, nil)

	out, err := execute(t, "batch", "-f", path, "--no-journal", "--sessions", "40", "--workers", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Batch Result")
	assert.Contains(t, out, "Sessions:      40")
	assert.NotContains(t, out, "Run ID:")
}

func TestSweepAndOrgExport(t *testing.T) {
	path := writeConfig(t, func(c *config.Config) {
		c.Simulation.WinProbability = 1
	})

	out, err := execute(t, "sweep", "-f", path, "--steps", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Risk Sweep Result")
	assert.Contains(t, out, "Sweeping 3 candidates from 10.00 to 500.00")
	assert.Contains(t, out, "Risk Amount:   500.00")

	m := runIDPattern.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	runID := m[1]

	out, err = execute(t, "journal", "runs", "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "optimal risk 500.00")

	out, err = execute(t, "journal", "org", runID, "-f", path)
	require.NoError(t, err)
	assert.Contains(t, out, "* SIMULATION: sweep "+runID)
	assert.Contains(t, out, "** Results")

	_, err = execute(t, "journal", "show", "NOPE", "-f", path)
	assert.Error(t, err)
}
