package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Known secondary output formats for the processing stage. Parquet is the
// primary artifact and is always written.
const (
	FormatParquet = "parquet"
	FormatCSV     = "csv"
	FormatJSON    = "json"
)

// Process holds configuration for the feed-to-parquet processing stage.
type Process struct {
	InputPaths    []string
	OutputDir     string
	BatchSize     int
	OutputFormats []string
	Progress      bool
}

// Analyze holds configuration for the statistics stage.
type Analyze struct {
	OutputDir  string
	TopN       int
	SampleSize int
	Charts     bool
	ChartDir   string
}

// LoadProcess builds a Process config from environment variables.
func LoadProcess() (*Process, error) {
	c := &Process{
		InputPaths:    splitAndTrim(getEnv("TRANSCRIPTS_INPUT", "1-Part-All_2024.csv.gz")),
		OutputDir:     getEnv("TRANSCRIPTS_OUTPUT_DIR", "processed_data"),
		BatchSize:     getInt("PROCESS_BATCH_SIZE", 100000),
		OutputFormats: splitAndTrim(getEnv("PROCESS_OUTPUT_FORMATS", FormatParquet)),
		Progress:      getBool("PROCESS_PROGRESS", true),
	}

	if len(c.InputPaths) == 0 {
		return nil, fmt.Errorf("TRANSCRIPTS_INPUT must name at least one feed file")
	}
	if c.OutputDir == "" {
		return nil, fmt.Errorf("TRANSCRIPTS_OUTPUT_DIR cannot be empty")
	}
	if c.BatchSize <= 0 {
		return nil, fmt.Errorf("PROCESS_BATCH_SIZE must be positive")
	}

	seen := map[string]bool{FormatParquet: true}
	formats := []string{FormatParquet}
	for _, f := range c.OutputFormats {
		f = strings.ToLower(f)
		switch f {
		case FormatParquet, FormatCSV, FormatJSON:
			if !seen[f] {
				seen[f] = true
				formats = append(formats, f)
			}
		default:
			return nil, fmt.Errorf("PROCESS_OUTPUT_FORMATS: unknown format %q", f)
		}
	}
	c.OutputFormats = formats

	return c, nil
}

// LoadAnalyze builds an Analyze config from environment variables.
func LoadAnalyze() (*Analyze, error) {
	outputDir := getEnv("TRANSCRIPTS_OUTPUT_DIR", "processed_data")

	c := &Analyze{
		OutputDir:  outputDir,
		TopN:       getInt("ANALYZE_TOP_N", 10),
		SampleSize: getInt("ANALYZE_SAMPLE_SIZE", 10000),
		Charts:     getBool("ANALYZE_CHARTS", false),
		ChartDir:   getEnv("ANALYZE_CHART_DIR", outputDir+"/charts"),
	}

	if c.OutputDir == "" {
		return nil, fmt.Errorf("TRANSCRIPTS_OUTPUT_DIR cannot be empty")
	}
	if c.TopN <= 0 {
		return nil, fmt.Errorf("ANALYZE_TOP_N must be positive")
	}
	if c.SampleSize < 0 {
		return nil, fmt.Errorf("ANALYZE_SAMPLE_SIZE cannot be negative")
	}
	if c.Charts && c.ChartDir == "" {
		return nil, fmt.Errorf("ANALYZE_CHART_DIR cannot be empty when charts are enabled")
	}

	return c, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
