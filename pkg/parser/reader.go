package parser

import (
	"bufio"
	"errors"
	"io"
)

// DefaultBufferSize is the read buffer size used for log input.
const DefaultBufferSize = 256 * 1024

// LineReader splits a byte stream into lines terminated by '\n'.
// Lines are not assumed to be valid UTF-8.
type LineReader struct {
	br      *bufio.Reader
	long    []byte
	lineNum int
}

// NewLineReader creates a LineReader with a read buffer of size bytes
// (DefaultBufferSize if size <= 0).
func NewLineReader(r io.Reader, size int) *LineReader {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &LineReader{br: bufio.NewReaderSize(r, size)}
}

// Next returns the next line including its '\n' delimiter. The last line
// of the input is returned without a delimiter if the input does not end
// with one. Next returns io.EOF when the input is exhausted.
//
// The returned slice is only valid until the next call to Next.
func (lr *LineReader) Next() ([]byte, error) {
	line, err := lr.br.ReadSlice('\n')
	if errors.Is(err, bufio.ErrBufferFull) {
		// Line longer than the read buffer: collect it in a side buffer.
		lr.long = append(lr.long[:0], line...)
		for errors.Is(err, bufio.ErrBufferFull) {
			line, err = lr.br.ReadSlice('\n')
			lr.long = append(lr.long, line...)
		}
		line = lr.long
	}

	if len(line) > 0 {
		lr.lineNum++
		if err == io.EOF {
			return line, nil
		}
		return line, err
	}
	return nil, err
}

// LineNum returns the 1-based number of the line last returned by Next.
func (lr *LineReader) LineNum() int {
	return lr.lineNum
}
