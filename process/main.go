// Command process converts the raw transcript feed into the consolidated
// parquet artifact consumed by the analyze stage.
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/quinfer/conference-call-transcripts/internal/config"
	"github.com/quinfer/conference-call-transcripts/internal/ingest"
	"github.com/quinfer/conference-call-transcripts/internal/logger"
	"github.com/quinfer/conference-call-transcripts/internal/models"
	"github.com/quinfer/conference-call-transcripts/internal/store"
)

func main() {
	log := logger.New("process")
	cfg, err := config.LoadProcess()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := run(ctx, log, cfg); err != nil {
		log.Error("processing failed", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, cfg *config.Process) error {
	var (
		components []models.Component
		dropped    int
		degraded   int
	)

	for _, path := range cfg.InputPaths {
		log.Info("processing feed", slog.String("path", path), slog.Int("batch_size", cfg.BatchSize))

		rows, res, err := processFeed(ctx, log, path, cfg)
		if err != nil {
			return err
		}

		components = append(components, res.Components...)
		dropped += res.Dropped
		degraded += res.Degraded
		log.Info("feed processed",
			slog.String("path", path),
			slog.Int64("raw_rows", rows),
			slog.Int("kept", len(res.Components)),
			slog.Int("dropped", res.Dropped),
			slog.Int("degraded_timestamps", res.Degraded),
		)
	}

	writer := store.NewWriter(cfg.OutputDir, log)
	outputs, err := writer.Write(components, cfg.OutputFormats)
	if err != nil {
		return err
	}

	manifest := store.NewManifest(cfg.InputPaths, len(components), dropped, degraded, outputs)
	if err := writer.WriteManifest(manifest); err != nil {
		return err
	}

	log.Info("run complete",
		slog.String("run_id", manifest.RunID),
		slog.Int("rows", manifest.Rows),
		slog.Int("dropped", manifest.DroppedRows),
		slog.Int("degraded_timestamps", manifest.DegradedTimestamps),
	)
	return nil
}

// processFeed streams one feed file batch by batch, folding each normalized
// batch into the accumulator before the raw batch is released.
func processFeed(ctx context.Context, log *slog.Logger, path string, cfg *config.Process) (int64, ingest.BatchResult, error) {
	var acc ingest.BatchResult

	feed, err := ingest.Open(path, cfg.Progress)
	if err != nil {
		return 0, acc, err
	}
	defer feed.Close()

	norm, err := ingest.NewNormalizer(feed.Columns())
	if err != nil {
		return 0, acc, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return feed.Rows(), acc, err
		}

		batch, err := feed.Next(cfg.BatchSize)
		if err != nil && !errors.Is(err, io.EOF) {
			return feed.Rows(), acc, err
		}

		res := norm.NormalizeBatch(batch)
		acc.Components = append(acc.Components, res.Components...)
		acc.Dropped += res.Dropped
		acc.Degraded += res.Degraded

		if res.Dropped > 0 || res.Degraded > 0 {
			log.Warn("batch degraded",
				slog.Int("rows", len(batch)),
				slog.Int("dropped", res.Dropped),
				slog.Int("degraded_timestamps", res.Degraded),
			)
		}

		// Only the normalized components stay resident; the raw batch is
		// released before the next read.
		batch = nil

		if errors.Is(err, io.EOF) {
			return feed.Rows(), acc, nil
		}
	}
}
