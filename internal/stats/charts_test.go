package stats

import (
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestTruncateLabel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{name: "short untouched", input: "Acme Corp", max: 16, want: "Acme Corp"},
		{name: "exact length untouched", input: "Acme", max: 4, want: "Acme"},
		{name: "ascii truncated", input: "International Holdings", max: 8, want: "Interna…"},
		{name: "multibyte at boundary", input: "Büro für Technik AG", max: 2, want: "B…"},
		{name: "cyrillic", input: "Газпром Нефть", max: 8, want: "Газпром…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateLabel(tt.input, tt.max)
			require.Equal(t, tt.want, got)
			require.True(t, utf8.ValidString(got))
		})
	}
}

func TestRenderChartsWritesFiles(t *testing.T) {
	dir := t.TempDir()

	monthly := []MonthCount{
		{Month: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), Count: 4},
		{Month: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), Count: 7},
	}
	companies := []CountRow{
		{Key: "Общество с ограниченной ответственностью", Count: 6},
		{Key: "Acme", Count: 5},
	}

	paths, err := RenderCharts(dir, monthly, companies)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	for _, path := range paths {
		require.FileExists(t, path)
	}
}

func TestRenderChartsSkipsEmptyViews(t *testing.T) {
	paths, err := RenderCharts(t.TempDir(), nil, nil)
	require.NoError(t, err)
	require.Empty(t, paths)
}
