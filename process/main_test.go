package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quinfer/conference-call-transcripts/internal/config"
	"github.com/quinfer/conference-call-transcripts/internal/store"
)

const testHeader = "COMPANYNAME~COMPANYID~TRANSCRIPTID~TRANSCRIPTCOMPONENTID~" +
	"DATEOFCALLUTC~ANNOUNCEDDATEUTC~TRANSCRIPTCOMPONENTTYPE~SPEAKERTYPE~COMPONENTTEXT"

func writeTestFeed(t *testing.T, rows ...string) string {
	t.Helper()

	content := testHeader + "`"
	if len(rows) > 0 {
		content += strings.Join(rows, "`") + "`"
	}

	path := filepath.Join(t.TempDir(), "feed.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunProducesArtifact(t *testing.T) {
	feed := writeTestFeed(t,
		"Acme~C1~T1~X1~2024-01-15~2024-01-10~Question~Analysts~How was Q4?",
		"Acme~C1~T1~X2~2024-01-15~2024-01-10~Answer~Executives~Strong.",
		"Bolt~C2~T2~X3~not-a-date~2024-02-15~Question~Analysts~Outlook?",
	)

	outDir := filepath.Join(t.TempDir(), "processed_data")
	cfg := &config.Process{
		InputPaths:    []string{feed},
		OutputDir:     outDir,
		BatchSize:     2,
		OutputFormats: []string{config.FormatParquet},
	}

	require.NoError(t, run(context.Background(), discardLogger(), cfg))

	// One unparseable call date degrades a field, never drops the row.
	components, err := store.ReadArtifact(outDir)
	require.NoError(t, err)
	require.Len(t, components, 3)
	require.Nil(t, components[2].CallDate)
	require.NotNil(t, components[2].AnnouncedDate)

	require.FileExists(t, filepath.Join(outDir, store.ManifestName))
}

func TestRunHeaderOnlyFeed(t *testing.T) {
	feed := writeTestFeed(t)

	outDir := filepath.Join(t.TempDir(), "processed_data")
	cfg := &config.Process{
		InputPaths:    []string{feed},
		OutputDir:     outDir,
		BatchSize:     100,
		OutputFormats: []string{config.FormatParquet},
	}

	require.NoError(t, run(context.Background(), discardLogger(), cfg))

	components, err := store.ReadArtifact(outDir)
	require.NoError(t, err)
	require.Empty(t, components)
}

func TestRunIsIdempotent(t *testing.T) {
	feed := writeTestFeed(t,
		"Acme~C1~T1~X1~2024-01-15~2024-01-10~Question~Analysts~How was Q4?",
		"Bolt~C2~T2~X2~2024-02-20~2024-02-15~Answer~Executives~Fine.",
	)

	outDir := filepath.Join(t.TempDir(), "processed_data")
	cfg := &config.Process{
		InputPaths:    []string{feed},
		OutputDir:     outDir,
		BatchSize:     1,
		OutputFormats: []string{config.FormatParquet},
	}

	require.NoError(t, run(context.Background(), discardLogger(), cfg))
	first, err := store.ReadArtifact(outDir)
	require.NoError(t, err)

	require.NoError(t, run(context.Background(), discardLogger(), cfg))
	second, err := store.ReadArtifact(outDir)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		require.Equal(t, first[i].TranscriptID, second[i].TranscriptID)
		require.Equal(t, first[i].Text, second[i].Text)
	}
}

func TestRunMissingFeed(t *testing.T) {
	cfg := &config.Process{
		InputPaths:    []string{filepath.Join(t.TempDir(), "absent.csv.gz")},
		OutputDir:     t.TempDir(),
		BatchSize:     100,
		OutputFormats: []string{config.FormatParquet},
	}

	err := run(context.Background(), discardLogger(), cfg)
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunMergesMultipleFeeds(t *testing.T) {
	feedA := writeTestFeed(t, "Acme~C1~T1~X1~2024-01-15~2024-01-10~Question~Analysts~one")
	feedB := writeTestFeed(t, "Bolt~C2~T2~X2~2024-02-20~2024-02-15~Answer~Executives~two")

	outDir := filepath.Join(t.TempDir(), "processed_data")
	cfg := &config.Process{
		InputPaths:    []string{feedA, feedB},
		OutputDir:     outDir,
		BatchSize:     100,
		OutputFormats: []string{config.FormatParquet},
	}

	require.NoError(t, run(context.Background(), discardLogger(), cfg))

	components, err := store.ReadArtifact(outDir)
	require.NoError(t, err)
	require.Len(t, components, 2)
	require.Equal(t, "Acme", components[0].CompanyName)
	require.Equal(t, "Bolt", components[1].CompanyName)
}
