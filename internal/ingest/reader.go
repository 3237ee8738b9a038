// Package ingest reads the raw transcript feed in bounded-size batches.
//
// The feed is a text export with tilde (~) field delimiters and backtick (`)
// row terminators. Component text regularly contains newlines and commas, so
// neither line-based scanning nor a CSV reader can parse it; rows are framed
// purely by the backtick terminator.
package ingest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/schollz/progressbar/v3"

	"github.com/quinfer/conference-call-transcripts/internal/models"
)

const (
	fieldDelim   = '~'
	rowTerm      = '`'
	maxHeaderLen = 1 << 20
)

// ErrMissingColumn is wrapped by Open when a required column is absent from
// the feed header.
var ErrMissingColumn = errors.New("required column missing from feed header")

var gzipMagic = []byte{0x1f, 0x8b}

// Feed is a single forward pass over one input file. It is finite and not
// restartable; call Open again to re-scan from the top.
type Feed struct {
	file *os.File
	gz   *gzip.Reader
	br   *bufio.Reader

	columns []string
	bar     *progressbar.ProgressBar
	rows    int64
	done    bool
}

// Open opens the feed at path, transparently decompressing gzip input, and
// parses and validates the header. A missing file surfaces the underlying
// os.Open error; a header without every required column fails with
// ErrMissingColumn.
func Open(path string, progress bool) (*Feed, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feed: %w", err)
	}

	f := &Feed{file: file}

	br := bufio.NewReaderSize(file, 256<<10)
	if magic, err := br.Peek(2); err == nil && magic[0] == gzipMagic[0] && magic[1] == gzipMagic[1] {
		gz, err := gzip.NewReader(br)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("open gzip feed: %w", err)
		}
		f.gz = gz
		f.br = bufio.NewReaderSize(gz, 256<<10)
	} else {
		f.br = br
	}

	if err := f.readHeader(); err != nil {
		f.Close()
		return nil, err
	}

	if progress {
		f.bar = progressbar.NewOptions64(-1,
			progressbar.OptionSetDescription("rows"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionSpinnerType(14),
		)
	}

	return f, nil
}

func (f *Feed) readHeader() error {
	// The bound is enforced while reading; a file without a single row
	// terminator must not be buffered whole before being rejected.
	var sb strings.Builder
	for {
		b, err := f.br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read feed header: %w", err)
		}
		if b == rowTerm {
			break
		}
		if sb.Len() >= maxHeaderLen {
			return fmt.Errorf("feed header exceeds %d bytes, wrong delimiter format?", maxHeaderLen)
		}
		sb.WriteByte(b)
	}

	fields := strings.Split(sb.String(), string(fieldDelim))
	columns := make([]string, 0, len(fields))
	for _, h := range fields {
		columns = append(columns, strings.TrimSpace(h))
	}

	index := make(map[string]bool, len(columns))
	for _, c := range columns {
		index[c] = true
	}
	for _, required := range models.RequiredColumns {
		if !index[required] {
			return fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	f.columns = columns
	return nil
}

// Columns returns the header columns in feed order.
func (f *Feed) Columns() []string {
	return f.columns
}

// Rows returns the number of raw rows handed out so far.
func (f *Feed) Rows() int64 {
	return f.rows
}

// Next returns the next batch of at most batchSize raw rows, each row a
// field slice in header order. It returns io.EOF (possibly alongside a final
// short batch) once the feed is exhausted.
func (f *Feed) Next(batchSize int) ([][]string, error) {
	if f.done {
		return nil, io.EOF
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	batch := make([][]string, 0, batchSize)
	for len(batch) < batchSize {
		raw, err := f.br.ReadString(rowTerm)
		if err != nil && err != io.EOF {
			return batch, fmt.Errorf("read feed row: %w", err)
		}

		row := strings.TrimSuffix(raw, string(rowTerm))
		if strings.TrimSpace(row) != "" {
			batch = append(batch, strings.Split(row, string(fieldDelim)))
			f.rows++
			if f.bar != nil {
				f.bar.Add(1)
			}
		}

		if err == io.EOF {
			f.done = true
			if f.bar != nil {
				f.bar.Finish()
			}
			return batch, io.EOF
		}
	}

	return batch, nil
}

// Close releases the underlying file and decompressor.
func (f *Feed) Close() error {
	var errs []error
	if f.gz != nil {
		if err := f.gz.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if f.file != nil {
		if err := f.file.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
