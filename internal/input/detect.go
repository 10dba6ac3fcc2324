// Package input is the ingestion layer: it reads JSON Lines or JSON-array
// sources from files and stdin, validates that every row is an object, and
// offers seek-based random access through a byte-offset index with an LRU row
// cache on top.
package input

import (
	"bufio"
	"unicode"
)

// Format is the detected physical layout of a JSON source.
type Format int

const (
	// FormatLines is line-delimited JSON (one object per line).
	FormatLines Format = iota
	// FormatArray is a single top-level JSON array of objects.
	FormatArray
)

func (f Format) String() string {
	if f == FormatArray {
		return "array"
	}
	return "lines"
}

// SniffFormat peeks past leading whitespace: a source opening with '[' is a
// JSON array, anything else (including an empty source) is treated as
// line-delimited. The reader is left positioned at the first non-space byte.
func SniffFormat(br *bufio.Reader) (Format, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			// EOF: empty input reads as zero lines.
			return FormatLines, nil
		}
		if unicode.IsSpace(rune(b)) {
			continue
		}
		if err := br.UnreadByte(); err != nil {
			return FormatLines, err
		}
		if b == '[' {
			return FormatArray, nil
		}
		return FormatLines, nil
	}
}
