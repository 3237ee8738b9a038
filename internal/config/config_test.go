package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quinfer/conference-call-transcripts/internal/config"
)

func TestLoadProcessDefaults(t *testing.T) {
	t.Setenv("TRANSCRIPTS_INPUT", "")
	t.Setenv("TRANSCRIPTS_OUTPUT_DIR", "")
	t.Setenv("PROCESS_BATCH_SIZE", "")
	t.Setenv("PROCESS_OUTPUT_FORMATS", "")
	t.Setenv("PROCESS_PROGRESS", "")

	cfg, err := config.LoadProcess()
	require.NoError(t, err)

	require.Equal(t, []string{"1-Part-All_2024.csv.gz"}, cfg.InputPaths)
	require.Equal(t, "processed_data", cfg.OutputDir)
	require.Equal(t, 100000, cfg.BatchSize)
	require.Equal(t, []string{config.FormatParquet}, cfg.OutputFormats)
	require.True(t, cfg.Progress)
}

func TestLoadProcessOverrides(t *testing.T) {
	t.Setenv("TRANSCRIPTS_INPUT", "part1.csv.gz, part2.csv.gz")
	t.Setenv("TRANSCRIPTS_OUTPUT_DIR", "out")
	t.Setenv("PROCESS_BATCH_SIZE", "500")
	t.Setenv("PROCESS_OUTPUT_FORMATS", "csv,json")
	t.Setenv("PROCESS_PROGRESS", "false")

	cfg, err := config.LoadProcess()
	require.NoError(t, err)

	require.Equal(t, []string{"part1.csv.gz", "part2.csv.gz"}, cfg.InputPaths)
	require.Equal(t, "out", cfg.OutputDir)
	require.Equal(t, 500, cfg.BatchSize)
	require.False(t, cfg.Progress)

	// Parquet is always implied and always first.
	require.Equal(t, []string{config.FormatParquet, config.FormatCSV, config.FormatJSON}, cfg.OutputFormats)
}

func TestLoadProcessRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "zero batch size", key: "PROCESS_BATCH_SIZE", value: "0"},
		{name: "negative batch size", key: "PROCESS_BATCH_SIZE", value: "-5"},
		{name: "unknown format", key: "PROCESS_OUTPUT_FORMATS", value: "hdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := config.LoadProcess()
			require.Error(t, err)
		})
	}
}

func TestLoadAnalyzeDefaults(t *testing.T) {
	t.Setenv("TRANSCRIPTS_OUTPUT_DIR", "")
	t.Setenv("ANALYZE_TOP_N", "")
	t.Setenv("ANALYZE_SAMPLE_SIZE", "")
	t.Setenv("ANALYZE_CHARTS", "")
	t.Setenv("ANALYZE_CHART_DIR", "")

	cfg, err := config.LoadAnalyze()
	require.NoError(t, err)

	require.Equal(t, "processed_data", cfg.OutputDir)
	require.Equal(t, 10, cfg.TopN)
	require.Equal(t, 10000, cfg.SampleSize)
	require.False(t, cfg.Charts)
	require.Equal(t, "processed_data/charts", cfg.ChartDir)
}

func TestLoadAnalyzeOverrides(t *testing.T) {
	t.Setenv("TRANSCRIPTS_OUTPUT_DIR", "artifacts")
	t.Setenv("ANALYZE_TOP_N", "3")
	t.Setenv("ANALYZE_SAMPLE_SIZE", "0")
	t.Setenv("ANALYZE_CHARTS", "true")
	t.Setenv("ANALYZE_CHART_DIR", "artifacts/png")

	cfg, err := config.LoadAnalyze()
	require.NoError(t, err)

	require.Equal(t, "artifacts", cfg.OutputDir)
	require.Equal(t, 3, cfg.TopN)
	require.Equal(t, 0, cfg.SampleSize)
	require.True(t, cfg.Charts)
	require.Equal(t, "artifacts/png", cfg.ChartDir)
}

func TestLoadAnalyzeRejectsBadValues(t *testing.T) {
	t.Setenv("ANALYZE_TOP_N", "0")
	_, err := config.LoadAnalyze()
	require.Error(t, err)

	t.Setenv("ANALYZE_TOP_N", "10")
	t.Setenv("ANALYZE_SAMPLE_SIZE", "-1")
	_, err = config.LoadAnalyze()
	require.Error(t, err)
}
