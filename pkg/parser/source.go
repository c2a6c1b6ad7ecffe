package parser

import (
	"context"
	"fmt"
	"io"
)

// FileSource implements LogSource for a single log file or stream.
// Every line is returned as is; recognition is left to the caller.
type FileSource struct {
	path       string
	bufferSize int

	rc      io.ReadCloser
	reader  *LineReader
	opened  bool
	openErr error
}

// NewFileSource creates a LogSource reading the given file. The file is
// opened (and decompressed if needed) on the first call to Next.
func NewFileSource(path string, bufferSize int) *FileSource {
	return &FileSource{path: path, bufferSize: bufferSize}
}

// NewReaderSource creates a LogSource over an already open stream, such as
// standard input. Close does not close r.
func NewReaderSource(name string, r io.Reader, bufferSize int) *FileSource {
	return &FileSource{
		path:   name,
		reader: NewLineReader(r, bufferSize),
		opened: true,
	}
}

// Next returns the next line. The returned Line owns its Raw bytes.
// Returns io.EOF when the file has been exhausted.
func (s *FileSource) Next(ctx context.Context) (*Line, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := s.Open(); err != nil {
		return nil, err
	}

	raw, err := s.reader.Next()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	return &Line{
		Raw:     append([]byte(nil), raw...),
		Source:  s.path,
		LineNum: s.reader.LineNum(),
	}, nil
}

// Open opens the underlying file if it is not open yet. Calling Open
// before the first Next lets callers report open failures separately
// from read failures.
func (s *FileSource) Open() error {
	if s.opened {
		return s.openErr
	}
	s.opened = true

	rc, err := OpenInput(s.path)
	if err != nil {
		s.openErr = err
		return err
	}
	s.rc = rc
	s.reader = NewLineReader(rc, s.bufferSize)
	return nil
}

// Close releases resources.
func (s *FileSource) Close() error {
	if s.rc != nil {
		err := s.rc.Close()
		s.rc = nil
		return err
	}
	return nil
}
