package stats

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
)

// RenderCharts writes PNG bar charts for the monthly and top-company views
// into dir, returning the written paths. Views with no data are skipped.
func RenderCharts(dir string, monthly []MonthCount, companies []CountRow) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart dir: %w", err)
	}

	var paths []string

	if len(monthly) > 0 {
		bars := make([]chart.Value, 0, len(monthly))
		for _, m := range monthly {
			bars = append(bars, chart.Value{Label: m.Month.Format(monthLayout), Value: float64(m.Count)})
		}
		path := filepath.Join(dir, "calls_per_month.png")
		if err := renderBarChart(path, "Calls per Month", bars); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	if len(companies) > 0 {
		bars := make([]chart.Value, 0, len(companies))
		for _, c := range companies {
			bars = append(bars, chart.Value{Label: truncateLabel(c.Key, 16), Value: float64(c.Count)})
		}
		path := filepath.Join(dir, "top_companies.png")
		if err := renderBarChart(path, "Top Companies by Component Count", bars); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	return paths, nil
}

func renderBarChart(path, title string, bars []chart.Value) error {
	graph := chart.BarChart{
		Title:    title,
		Height:   512,
		Width:    1024,
		BarWidth: 40,
		Bars:     bars,
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	if err := graph.Render(chart.PNG, f); err != nil {
		f.Close()
		return fmt.Errorf("render chart %s: %w", title, err)
	}
	return f.Close()
}

// truncateLabel shortens a label to max runes, never splitting a multi-byte
// rune at the boundary.
func truncateLabel(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
