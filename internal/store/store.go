// Package store persists and loads the consolidated transcript artifact.
// Parquet is the primary format; CSV and JSON are optional secondary
// exports. Every write overwrites wholesale, so re-running the processing
// stage never requires manual cleanup.
package store

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/quinfer/conference-call-transcripts/internal/config"
	"github.com/quinfer/conference-call-transcripts/internal/models"
)

// ArtifactBase is the filename (without extension) shared by all output
// formats under the output directory.
const ArtifactBase = "processed_transcripts"

// ErrNoArtifact reports that the analysis stage ran before the processing
// stage produced an artifact.
var ErrNoArtifact = errors.New("processed artifact not found, run the process stage first")

// ErrColumnMissing reports an artifact whose schema lacks a column the
// analysis stage depends on, which signals malformed upstream output.
var ErrColumnMissing = errors.New("artifact missing expected column")

// artifactColumns are the schema leaves every readable artifact must carry.
// TRANSCRIPTCOMPONENTID is exempt, mirroring its optionality in the feed.
var artifactColumns = []string{
	"companyname",
	"companyid",
	"transcriptid",
	"dateofcallutc",
	"announceddateutc",
	"transcriptcomponenttype",
	"speakertype",
	"componenttext",
}

// Writer writes the artifact and its secondary formats into one directory.
type Writer struct {
	dir string
	log *slog.Logger
}

// NewWriter returns a Writer rooted at dir.
func NewWriter(dir string, log *slog.Logger) *Writer {
	if log == nil {
		log = slog.Default()
	}
	return &Writer{dir: dir, log: log}
}

// Write persists the components in every requested format, creating the
// output directory if needed. It returns the written paths keyed by format.
func (w *Writer) Write(components []models.Component, formats []string) (map[string]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	if len(formats) == 0 {
		formats = []string{config.FormatParquet}
	}

	paths := make(map[string]string, len(formats))
	for _, format := range formats {
		path := filepath.Join(w.dir, ArtifactBase+"."+format)

		var err error
		switch format {
		case config.FormatParquet:
			err = writeParquet(path, components)
		case config.FormatCSV:
			err = writeCSV(path, components)
		case config.FormatJSON:
			err = writeJSON(path, components)
		default:
			err = fmt.Errorf("unknown output format %q", format)
		}
		if err != nil {
			return paths, fmt.Errorf("write %s artifact: %w", format, err)
		}

		paths[format] = path
		w.log.Info("artifact written",
			slog.String("format", format),
			slog.String("path", path),
			slog.String("size", fileSize(path)),
		)
	}

	return paths, nil
}

// ReadArtifact loads the full parquet artifact from dir. A missing file
// yields ErrNoArtifact; a file whose schema lacks an expected column yields
// ErrColumnMissing naming the column, before any rows are decoded.
func ReadArtifact(dir string) ([]models.Component, error) {
	path := filepath.Join(dir, ArtifactBase+"."+config.FormatParquet)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoArtifact, path)
		}
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat artifact: %w", err)
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	if err := checkArtifactSchema(pf.Schema()); err != nil {
		return nil, fmt.Errorf("artifact %s: %w", path, err)
	}

	components, err := parquet.Read[models.Component](f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}
	return components, nil
}

// checkArtifactSchema guards against a malformed upstream artifact: the
// generic reader zero-fills absent columns instead of failing, so the schema
// is compared against the expected column set up front.
func checkArtifactSchema(schema *parquet.Schema) error {
	present := make(map[string]bool)
	for _, field := range schema.Fields() {
		present[field.Name()] = true
	}
	for _, col := range artifactColumns {
		if !present[col] {
			return fmt.Errorf("%w: %s", ErrColumnMissing, col)
		}
	}
	return nil
}

func writeParquet(path string, components []models.Component) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	pw := parquet.NewGenericWriter[models.Component](f)
	if len(components) > 0 {
		if _, err := pw.Write(components); err != nil {
			f.Close()
			return err
		}
	}
	if err := pw.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeCSV(path string, components []models.Component) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(f)
	header := []string{
		models.ColCompanyName,
		models.ColCompanyID,
		models.ColTranscriptID,
		models.ColComponentID,
		models.ColCallDate,
		models.ColAnnouncedDate,
		models.ColComponentType,
		models.ColSpeakerType,
		models.ColText,
	}
	if err := cw.Write(header); err != nil {
		f.Close()
		return err
	}

	for _, c := range components {
		record := []string{
			c.CompanyName,
			c.CompanyID,
			c.TranscriptID,
			c.ComponentID,
			formatTimestamp(c.CallDate),
			formatTimestamp(c.AnnouncedDate),
			c.ComponentType,
			c.SpeakerType,
			c.Text,
		}
		if err := cw.Write(record); err != nil {
			f.Close()
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeJSON(path string, components []models.Component) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	if err := enc.Encode(components); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatTimestamp(ts *time.Time) string {
	if ts == nil {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "unknown"
	}
	return strconv.FormatInt(info.Size(), 10) + " bytes"
}
