package input

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/tomoya55/jlcat/internal/jval"
)

// IndexedReader provides seek-based random access to a line-delimited JSON
// source. Construction scans the source once and records the byte offset of
// every line whose trimmed content is non-empty; blank lines do not consume a
// row index. A parse failure on one row does not affect the offsets of the
// others.
type IndexedReader struct {
	src     io.ReadSeeker
	offsets []int64
	lines   []int // 1-based source line per row; blank lines count
}

// NewIndexedReader scans src and builds the offset index. The source must
// remain valid for the reader's lifetime.
func NewIndexedReader(src io.ReadSeeker) (*IndexedReader, error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to start: %w", err)
	}

	var offsets []int64
	var lines []int
	var pos int64
	lineNo := 0
	br := bufio.NewReader(src)
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > 0 {
			lineNo++
			if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
				offsets = append(offsets, pos)
				lines = append(lines, lineNo)
			}
			pos += int64(len(line))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to index input: %w", err)
		}
	}
	return &IndexedReader{src: src, offsets: offsets, lines: lines}, nil
}

// Len returns the number of indexed rows.
func (r *IndexedReader) Len() int { return len(r.offsets) }

// Row seeks to row i, reads one line and parses it. A parse failure surfaces
// as a RowError for that index only.
func (r *IndexedReader) Row(i int) (jval.Value, error) {
	if i < 0 || i >= len(r.offsets) {
		return jval.Null, fmt.Errorf("%w: %d of %d", ErrRowOutOfRange, i, len(r.offsets))
	}
	if _, err := r.src.Seek(r.offsets[i], io.SeekStart); err != nil {
		return jval.Null, fmt.Errorf("failed to seek to row %d: %w", i, err)
	}
	line, err := bufio.NewReader(r.src).ReadBytes('\n')
	if err != nil && err != io.EOF {
		return jval.Null, fmt.Errorf("failed to read row %d: %w", i, err)
	}
	v, err := parseRow(bytes.TrimSpace(line))
	if err != nil {
		return jval.Null, &RowError{Line: r.lines[i], Row: i, Err: err}
	}
	return v, nil
}

// Rows reads the half-open index range [from, to), clamped to the source.
// Rows that fail to parse are returned as errors in the second slice,
// positionally aligned with the first.
func (r *IndexedReader) Rows(from, to int) ([]jval.Value, []error) {
	if from < 0 {
		from = 0
	}
	if to > len(r.offsets) {
		to = len(r.offsets)
	}
	if from >= to {
		return nil, nil
	}
	rows := make([]jval.Value, to-from)
	errs := make([]error, to-from)
	for i := from; i < to; i++ {
		rows[i-from], errs[i-from] = r.Row(i)
	}
	return rows, errs
}

// All reads every indexed row, skipping unparseable ones.
func (r *IndexedReader) All() []jval.Value {
	rows := make([]jval.Value, 0, len(r.offsets))
	for i := range r.offsets {
		v, err := r.Row(i)
		if err != nil {
			continue
		}
		rows = append(rows, v)
	}
	return rows
}
