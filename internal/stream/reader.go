// Package stream serves byte-range windows of decrypted payloads for
// progressive media playback. The vault stores whole encrypted blobs, so
// the first window for a file costs one full decrypt; the decoded buffer
// is then retained for later windows of the same file.
package stream

import (
	"sync"

	"mediavault/internal/cache"
	"mediavault/internal/events"
)

// Range is one inclusive byte window of a payload.
type Range struct {
	Data      []byte
	TotalSize int64
	Start     int64
	End       int64
}

// Reader decodes payloads on demand and answers clamped range requests.
type Reader struct {
	load   cache.Loader
	logger *events.Logger

	mu         sync.Mutex
	buffers    map[string][]byte
	order      []string // oldest first
	maxBuffers int
}

// NewReader creates a range reader keeping at most maxBuffers decoded
// payloads in memory.
func NewReader(load cache.Loader, maxBuffers int, logger *events.Logger) *Reader {
	return &Reader{
		load:       load,
		logger:     logger.WithField("component", "range_reader"),
		buffers:    make(map[string][]byte),
		maxBuffers: maxBuffers,
	}
}

// ReadRange returns the inclusive [start, end] slice of the payload.
// start is clamped to 0 and end to the last byte; a start beyond the end
// of the payload yields an empty window with the true total size.
func (r *Reader) ReadRange(id string, start, end int64) (*Range, error) {
	buf, err := r.buffer(id)
	if err != nil {
		return nil, err
	}

	total := int64(len(buf))
	if start < 0 {
		start = 0
	}
	if end < 0 || end > total-1 {
		end = total - 1
	}

	if total == 0 || start > end {
		return &Range{Data: []byte{}, TotalSize: total, Start: start, End: end}, nil
	}

	window := make([]byte, end-start+1)
	copy(window, buf[start:end+1])

	return &Range{
		Data:      window,
		TotalSize: total,
		Start:     start,
		End:       end,
	}, nil
}

// Invalidate drops the buffer for id.
func (r *Reader) Invalidate(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.buffers[id]; !ok {
		return
	}
	delete(r.buffers, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Clear drops every buffer. Called on logout.
func (r *Reader) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buffers = make(map[string][]byte)
	r.order = nil
}

// buffer returns the decoded payload for id, decrypting it once and
// evicting the oldest buffer when over capacity.
func (r *Reader) buffer(id string) ([]byte, error) {
	r.mu.Lock()
	if buf, ok := r.buffers[id]; ok {
		r.mu.Unlock()
		return buf, nil
	}
	r.mu.Unlock()

	data, err := r.load(id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if buf, ok := r.buffers[id]; ok {
		return buf, nil
	}

	for len(r.order) >= r.maxBuffers {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.buffers, oldest)
		r.logger.WithField("id", oldest).Debug("Evicting range buffer")
	}

	r.buffers[id] = data
	r.order = append(r.order, id)

	return data, nil
}
