// Package detector reports which timestamp formats a log file contains.
package detector

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ccollicutt/logwindow/pkg/parser"
	"github.com/ccollicutt/logwindow/pkg/timestamp"
)

// DefaultSampleSize is the number of lines sampled from a file.
const DefaultSampleSize = 100

// DetectionResult holds the result of analyzing a log file.
type DetectionResult struct {
	Matches      []FormatMatch // Formats that matched, sorted by confidence descending
	SampledLines int           // Number of lines sampled
	ParsedLines  int           // Number of lines with a recognized timestamp
	TooShort     int           // Lines shorter than any timestamp

	// Chronological is false if a recognized timestamp was older than the
	// one before it. Merging needs chronological inputs.
	Chronological bool

	// FastMismatches counts lines the fast recognizer reads differently
	// from the reference recognizer.
	FastMismatches int
}

// FormatMatch represents a format that matched with its confidence score.
type FormatMatch struct {
	Format     timestamp.Format
	Confidence float64 // 0.0 to 1.0 (share of sampled lines)
	MatchCount int
	SampleLine string
	First      timestamp.Packed
	Last       timestamp.Packed
}

// Detector samples log files and classifies their timestamps.
type Detector struct {
	sampleSize int
	reference  parser.Recognizer
	fast       parser.Recognizer
}

// Option configures the Detector.
type Option func(*detectorOptions)

type detectorOptions struct {
	sampleSize int
	century    timestamp.Century
}

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(o *detectorOptions) {
		if n > 0 {
			o.sampleSize = n
		}
	}
}

// WithCentury sets the century for two-digit years.
func WithCentury(c timestamp.Century) Option {
	return func(o *detectorOptions) {
		o.century = c
	}
}

// New creates a new Detector.
func New(opts ...Option) *Detector {
	o := detectorOptions{sampleSize: DefaultSampleSize}
	for _, opt := range opts {
		opt(&o)
	}
	return &Detector{
		sampleSize: o.sampleSize,
		reference:  parser.NewReferenceRecognizer(o.century),
		fast:       parser.NewFastRecognizer(o.century),
	}
}

// DetectFromFile samples the head of a log file, decompressing it if
// needed, and classifies the sampled lines.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	src := parser.NewFileSource(path, 0)
	defer src.Close()

	var lines []string
	for len(lines) < d.sampleSize {
		line, err := src.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("sampling %s: %w", path, err)
		}
		if strings.TrimSpace(string(line.Raw)) == "" {
			continue
		}
		lines = append(lines, string(line.Raw))
	}

	return d.DetectFromLines(lines), nil
}

// DetectFromLines classifies a slice of log lines.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{
		SampledLines:  len(lines),
		Chronological: true,
	}

	if len(lines) == 0 {
		return result
	}

	stats := make(map[timestamp.Format]*FormatMatch)
	var prev timestamp.Packed

	for _, line := range lines {
		raw := []byte(line)
		if len(raw) < parser.MinLineLen {
			result.TooShort++
			continue
		}

		ref, refOK := d.reference.Recognize(raw)
		fast, fastOK := d.fast.Recognize(raw)
		if refOK != fastOK || ref != fast {
			result.FastMismatches++
		}
		if !refOK {
			continue
		}

		result.ParsedLines++
		if ref.Stamp < prev {
			result.Chronological = false
		}
		prev = ref.Stamp

		m := stats[ref.Format]
		if m == nil {
			m = &FormatMatch{
				Format:     ref.Format,
				SampleLine: strings.TrimRight(line, "\r\n"),
				First:      ref.Stamp,
			}
			stats[ref.Format] = m
		}
		m.MatchCount++
		m.Last = ref.Stamp
	}

	for _, m := range stats {
		m.Confidence = float64(m.MatchCount) / float64(len(lines))
		result.Matches = append(result.Matches, *m)
	}

	sort.Slice(result.Matches, func(i, j int) bool {
		if result.Matches[i].MatchCount != result.Matches[j].MatchCount {
			return result.Matches[i].MatchCount > result.Matches[j].MatchCount
		}
		return result.Matches[i].Format < result.Matches[j].Format
	})

	return result
}

// BestMatch returns the highest confidence match, or nil if none found.
func (r *DetectionResult) BestMatch() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one format matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}

// Unrecognized returns the number of sampled lines without a timestamp.
func (r *DetectionResult) Unrecognized() int {
	return r.SampledLines - r.ParsedLines - r.TooShort
}
