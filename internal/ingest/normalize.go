package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/quinfer/conference-call-transcripts/internal/models"
)

// Normalizer converts raw feed rows into Components using the column order
// of one opened feed. Rows missing a transcript or company identifier are
// dropped; unparseable timestamps degrade to nil and never fail a batch.
type Normalizer struct {
	companyName   int
	companyID     int
	transcriptID  int
	componentID   int
	callDate      int
	announcedDate int
	componentType int
	speakerType   int
	text          int
}

// BatchResult is one normalized batch plus its per-batch quality counters.
type BatchResult struct {
	Components []models.Component
	Dropped    int
	Degraded   int
}

// NewNormalizer builds a Normalizer for the given header columns.
func NewNormalizer(columns []string) (*Normalizer, error) {
	idx := make(map[string]int, len(columns))
	for i, c := range columns {
		idx[c] = i
	}

	pos := func(name string) (int, error) {
		i, ok := idx[name]
		if !ok {
			return -1, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
		return i, nil
	}

	n := &Normalizer{componentID: -1}
	var err error
	if n.companyName, err = pos(models.ColCompanyName); err != nil {
		return nil, err
	}
	if n.companyID, err = pos(models.ColCompanyID); err != nil {
		return nil, err
	}
	if n.transcriptID, err = pos(models.ColTranscriptID); err != nil {
		return nil, err
	}
	if n.callDate, err = pos(models.ColCallDate); err != nil {
		return nil, err
	}
	if n.announcedDate, err = pos(models.ColAnnouncedDate); err != nil {
		return nil, err
	}
	if n.componentType, err = pos(models.ColComponentType); err != nil {
		return nil, err
	}
	if n.speakerType, err = pos(models.ColSpeakerType); err != nil {
		return nil, err
	}
	if n.text, err = pos(models.ColText); err != nil {
		return nil, err
	}
	if i, ok := idx[models.ColComponentID]; ok {
		n.componentID = i
	}

	return n, nil
}

// NormalizeBatch folds one raw batch into Components. The returned slice is
// freshly allocated; the caller owns it and the raw batch can be released.
func (n *Normalizer) NormalizeBatch(rows [][]string) BatchResult {
	res := BatchResult{Components: make([]models.Component, 0, len(rows))}

	for _, fields := range rows {
		transcriptID := field(fields, n.transcriptID)
		companyID := field(fields, n.companyID)
		if transcriptID == "" || companyID == "" {
			res.Dropped++
			continue
		}

		c := models.Component{
			CompanyName:   field(fields, n.companyName),
			CompanyID:     companyID,
			TranscriptID:  transcriptID,
			ComponentID:   field(fields, n.componentID),
			ComponentType: field(fields, n.componentType),
			SpeakerType:   field(fields, n.speakerType),
			Text:          rawField(fields, n.text),
		}

		var degraded bool
		c.CallDate, degraded = parseTimestamp(field(fields, n.callDate))
		if degraded {
			res.Degraded++
		}
		c.AnnouncedDate, degraded = parseTimestamp(field(fields, n.announcedDate))
		if degraded {
			res.Degraded++
		}

		res.Components = append(res.Components, c)
	}

	return res
}

// parseTimestamp coerces a raw date string to UTC. The second return value
// reports a non-empty value that failed to parse; empty input is a plain nil
// without counting as degraded.
func parseTimestamp(raw string) (*time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}

	ts, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return nil, true
	}

	ts = ts.UTC()
	return &ts, false
}

func field(fields []string, i int) string {
	return strings.TrimSpace(rawField(fields, i))
}

// rawField preserves the value byte-for-byte; component text keeps its
// original whitespace and newlines.
func rawField(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}
