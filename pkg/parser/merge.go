package parser

import (
	"container/heap"
	"context"
	"io"
)

// MergedSource interleaves several sources into one stream ordered by
// packed timestamp, oldest first. Lines with equal stamps come out in
// source order.
//
// Every source must yield lines with Result set and be chronological on
// its own; MergedSource only compares the heads of the sources.
type MergedSource struct {
	sources []LogSource
	heads   cursorHeap
	primed  bool
}

// NewMergedSource creates a LogSource that merges sources by timestamp.
func NewMergedSource(sources ...LogSource) *MergedSource {
	return &MergedSource{sources: sources}
}

// Next returns the oldest pending line across all sources, or io.EOF
// once every source is exhausted.
func (m *MergedSource) Next(ctx context.Context) (*Line, error) {
	if !m.primed {
		if err := m.prime(ctx); err != nil {
			return nil, err
		}
		m.primed = true
	}
	if len(m.heads) == 0 {
		return nil, io.EOF
	}

	top := m.heads[0]
	line := top.line

	// Advance the source just consumed in place, so the heap is fixed
	// once rather than popped and pushed.
	next, err := m.sources[top.src].Next(ctx)
	switch {
	case err == nil:
		top.line = next
		heap.Fix(&m.heads, 0)
	case err == io.EOF:
		heap.Pop(&m.heads)
	default:
		return nil, err
	}

	return line, nil
}

// prime reads the head line of every source.
func (m *MergedSource) prime(ctx context.Context) error {
	m.heads = make(cursorHeap, 0, len(m.sources))
	for i, src := range m.sources {
		line, err := src.Next(ctx)
		if err == io.EOF {
			continue
		}
		if err != nil {
			return err
		}
		m.heads = append(m.heads, &cursor{line: line, src: i})
	}
	heap.Init(&m.heads)
	return nil
}

// Close closes every source and returns the first error.
func (m *MergedSource) Close() error {
	var firstErr error
	for _, src := range m.sources {
		if err := src.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// cursor is the pending head line of one source.
type cursor struct {
	line *Line
	src  int
}

// cursorHeap orders cursors by stamp, then by source index.
type cursorHeap []*cursor

func (h cursorHeap) Len() int { return len(h) }

func (h cursorHeap) Less(i, j int) bool {
	a, b := h[i], h[j]
	if a.line.Stamp != b.line.Stamp {
		return a.line.Stamp < b.line.Stamp
	}
	return a.src < b.src
}

func (h cursorHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *cursorHeap) Push(x any) { *h = append(*h, x.(*cursor)) }

func (h *cursorHeap) Pop() any {
	old := *h
	c := old[len(old)-1]
	old[len(old)-1] = nil
	*h = old[:len(old)-1]
	return c
}
