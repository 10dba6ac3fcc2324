package input

import (
	"github.com/tomoya55/jlcat/internal/jval"
)

// CachedReader layers the row cache over an indexed reader. It serves the
// interactive viewer, which revisits the rows around the cursor far more
// often than it touches the rest of the file.
type CachedReader struct {
	reader *IndexedReader
	cache  *RowCache
}

// NewCachedReader wraps an indexed reader with a cache of the given size.
func NewCachedReader(reader *IndexedReader, cacheSize int) *CachedReader {
	return &CachedReader{reader: reader, cache: NewRowCache(cacheSize)}
}

// Len returns the number of indexed rows.
func (r *CachedReader) Len() int { return r.reader.Len() }

// Row returns row i, from cache when possible.
func (r *CachedReader) Row(i int) (jval.Value, error) {
	if v, ok := r.cache.Get(i); ok {
		return v, nil
	}
	v, err := r.reader.Row(i)
	if err != nil {
		return jval.Null, err
	}
	r.cache.Insert(i, v)
	return v, nil
}

// Prefetch warms the cache with the half-open range [from, to), skipping rows
// already cached and rows that fail to parse.
func (r *CachedReader) Prefetch(from, to int) {
	if from < 0 {
		from = 0
	}
	if to > r.reader.Len() {
		to = r.reader.Len()
	}
	for i := from; i < to; i++ {
		if r.cache.Contains(i) {
			continue
		}
		v, err := r.reader.Row(i)
		if err != nil {
			continue
		}
		r.cache.Insert(i, v)
	}
}

// Rows returns the half-open range [from, to), skipping unparseable rows.
func (r *CachedReader) Rows(from, to int) []jval.Value {
	if from < 0 {
		from = 0
	}
	if to > r.reader.Len() {
		to = r.reader.Len()
	}
	out := make([]jval.Value, 0, to-from)
	for i := from; i < to; i++ {
		v, err := r.Row(i)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
