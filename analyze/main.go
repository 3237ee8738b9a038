// Command analyze loads the processed transcript artifact and prints
// descriptive statistics, optionally rendering charts.
package main

import (
	"log/slog"
	"os"

	"github.com/quinfer/conference-call-transcripts/internal/config"
	"github.com/quinfer/conference-call-transcripts/internal/logger"
	"github.com/quinfer/conference-call-transcripts/internal/models"
	"github.com/quinfer/conference-call-transcripts/internal/stats"
	"github.com/quinfer/conference-call-transcripts/internal/store"
)

func main() {
	log := logger.New("analyze")
	cfg, err := config.LoadAnalyze()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	components, err := store.ReadArtifact(cfg.OutputDir)
	if err != nil {
		log.Error("load artifact", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("artifact loaded", slog.Int("rows", len(components)))

	report := buildReport(components, cfg)
	stats.Render(os.Stdout, report)

	if cfg.Charts {
		paths, err := stats.RenderCharts(cfg.ChartDir, report.Monthly, report.TopCompanies)
		if err != nil {
			log.Error("render charts", slog.Any("err", err))
			os.Exit(1)
		}
		for _, path := range paths {
			log.Info("chart written", slog.String("path", path))
		}
	}
}

func buildReport(components []models.Component, cfg *config.Analyze) stats.Report {
	monthly, undated := stats.MonthlyCounts(components)

	return stats.Report{
		Summary:      stats.Summarize(components),
		Monthly:      monthly,
		Undated:      undated,
		ActiveMonths: stats.MostActiveMonths(monthly, 5),
		TopCompanies: stats.TopCompanies(components, cfg.TopN),
		AvgPerCall:   stats.AvgComponentsPerCall(components, cfg.TopN),
		ByComponent: stats.TextLengths(components, func(c models.Component) string {
			return c.ComponentType
		}, cfg.SampleSize),
		BySpeaker: stats.TextLengths(components, func(c models.Component) string {
			return c.SpeakerType
		}, cfg.SampleSize),
		SampleSize: cfg.SampleSize,
	}
}
