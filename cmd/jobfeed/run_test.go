package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/amishk599/jobfeed/internal/config"
	"github.com/amishk599/jobfeed/internal/model"
)

func TestLoadConfig_MissingDefaultFileUsesDefaults(t *testing.T) {
	keyring.MockInit()
	chdir(t, t.TempDir())
	t.Setenv("JOBFEED_CONFIG", "")

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultKeywords, cfg.Search.Keywords)
	assert.Equal(t, "csv", cfg.Export.Format)
}

func TestLoadConfig_MissingExplicitFileIsError(t *testing.T) {
	keyring.MockInit()
	chdir(t, t.TempDir())

	_, err := loadConfig("nope.yaml")
	assert.Error(t, err)
}

func TestLoadConfig_EnvPath(t *testing.T) {
	keyring.MockInit()
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("search:\n  keywords: Chef\n"), 0o644))
	t.Setenv("JOBFEED_CONFIG", path)

	cfg, err := loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "Chef", cfg.Search.Keywords)
}

func newFlagCommand(t *testing.T) *cobra.Command {
	t.Helper()
	flags = runFlags{}
	cmd := &cobra.Command{Use: "test"}
	addRunFlags(cmd)
	return cmd
}

func TestApplyFlags_OverridesOnlyChangedValues(t *testing.T) {
	keyring.MockInit()
	cfg, err := config.Parse([]byte("search:\n  keywords: Chef\n  results_per_page: 20\n"))
	require.NoError(t, err)

	cmd := newFlagCommand(t)
	require.NoError(t, cmd.Flags().Set("json", "true"))
	require.NoError(t, applyFlags(cmd, cfg))

	assert.Equal(t, "Chef", cfg.Search.Keywords, "unset --keywords must not override config")
	assert.Equal(t, 20, cfg.Search.ResultsPerPage)
	assert.Equal(t, "json", cfg.Export.Format)

	require.NoError(t, cmd.Flags().Set("keywords", "Driver"))
	require.NoError(t, cmd.Flags().Set("results", "5"))
	require.NoError(t, applyFlags(cmd, cfg))
	assert.Equal(t, "Driver", cfg.Search.Keywords)
	assert.Equal(t, 5, cfg.Search.ResultsPerPage)
}

func TestApplyFlags_RejectsResultsOutOfRange(t *testing.T) {
	keyring.MockInit()
	cfg, err := config.Parse(nil)
	require.NoError(t, err)

	cmd := newFlagCommand(t)
	require.NoError(t, cmd.Flags().Set("results", "51"))
	assert.Error(t, applyFlags(cmd, cfg))
}

func TestWriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	s := &model.RunSummary{
		RunID:      "run-1",
		Keywords:   "Driver",
		Partitions: []model.PartitionReport{{Partition: "be", Fetched: 5}, {Partition: "de", Error: "HTTP 500"}},
		Fetched:    5,
		Unique:     5,
	}

	require.NoError(t, writeSummary(path, s))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got model.RunSummary
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, 1, got.FailedPartitions())
	assert.True(t, got.Degraded())
}

func TestWriteSummary_EmptyPathIsNoop(t *testing.T) {
	assert.NoError(t, writeSummary("", &model.RunSummary{}))
}

func TestUploadColumn(t *testing.T) {
	assert.Equal(t, "-", uploadColumn(nil))
	assert.Equal(t, "skipped", uploadColumn(&model.UploadResult{Skipped: true}))
	assert.Equal(t, "3/1/2", uploadColumn(&model.UploadResult{Succeeded: 3, Duplicates: 1, Failed: 2}))
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory and restores the previous one when the test ends.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
