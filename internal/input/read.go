package input

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/tomoya55/jlcat/internal/jval"
)

// maxLineSize bounds a single JSON line. Rows beyond this are malformed
// enough to reject outright.
const maxLineSize = 64 * 1024 * 1024

// Options controls a read pass.
type Options struct {
	// Strict aborts on the first invalid or non-object row; otherwise such
	// rows are skipped with a warning.
	Strict bool
	// Skip drops the first N valid rows.
	Skip int
	// Limit caps the number of rows returned; 0 means unlimited.
	Limit int
	// Tail keeps only the last N rows; 0 means all. Tail applies after Skip
	// and is mutually exclusive with Limit at the CLI layer.
	Tail int
}

// ReadAll reads every row from a JSON Lines or JSON-array source, applying
// the row policy and the Skip/Limit/Tail window.
func ReadAll(r io.Reader, opts Options) ([]jval.Value, error) {
	br := bufio.NewReader(r)
	format, err := SniffFormat(br)
	if err != nil {
		return nil, fmt.Errorf("failed to sniff input format: %w", err)
	}
	if format == FormatArray {
		return readArray(br, opts)
	}
	return readLines(br, opts)
}

func readLines(br *bufio.Reader, opts Options) ([]jval.Value, error) {
	var rows []jval.Value
	scanner := bufio.NewScanner(br)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	rowIdx := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		v, err := parseRow(line)
		if err != nil {
			if opts.Strict {
				return nil, &RowError{Line: lineNo, Row: rowIdx, Err: err}
			}
			slog.Warn("skipping invalid row", "line", lineNo, "err", err)
			continue
		}
		rowIdx++
		if rowIdx <= opts.Skip {
			continue
		}
		rows = append(rows, v)
		if opts.Limit > 0 && len(rows) >= opts.Limit {
			break
		}
		if opts.Tail > 0 && len(rows) > opts.Tail {
			rows = rows[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return rows, nil
}

// readArray streams the elements of one top-level JSON array. Malformed JSON
// inside an array cannot be resynchronized, so decode errors are fatal under
// both policies; only non-object elements are policy-gated.
func readArray(br *bufio.Reader, opts Options) ([]jval.Value, error) {
	dec := json.NewDecoder(br)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to read array: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("expected a JSON array, got %v", tok)
	}

	var rows []jval.Value
	elem := 0
	rowIdx := 0
	for dec.More() {
		v, err := jval.Decode(dec)
		if err != nil {
			return nil, &RowError{Row: elem, Err: err}
		}
		if v.Kind() != jval.KindObject {
			if opts.Strict {
				return nil, &RowError{Row: elem, Err: ErrNotObject}
			}
			slog.Warn("skipping non-object row", "row", elem, "kind", v.Kind())
			elem++
			continue
		}
		elem++
		rowIdx++
		if rowIdx <= opts.Skip {
			continue
		}
		rows = append(rows, v)
		if opts.Limit > 0 && len(rows) >= opts.Limit {
			return rows, nil
		}
		if opts.Tail > 0 && len(rows) > opts.Tail {
			rows = rows[1:]
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to read array end: %w", err)
	}
	return rows, nil
}

// parseRow parses one line and enforces the object-only contract.
func parseRow(line []byte) (jval.Value, error) {
	v, err := jval.Parse(line)
	if err != nil {
		return jval.Null, err
	}
	if v.Kind() != jval.KindObject {
		return jval.Null, ErrNotObject
	}
	return v, nil
}
