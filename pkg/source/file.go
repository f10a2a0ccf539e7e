package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
)

// maxLineSize bounds a single log line.
const maxLineSize = 1024 * 1024

// FileSource implements LineSource for a single log file or stream.
// Files are opened on the first call to Next and released once exhausted or
// when Close is called, whichever comes first.
type FileSource struct {
	name string
	open func() (io.Reader, io.Closer, error)

	closer  io.Closer
	scanner *bufio.Scanner
	lineNum int
	done    bool
}

// NewFileSource creates a LineSource reading the file at path.
// Compressed files (.gz, .zst, .lz4) are decoded transparently.
func NewFileSource(path string) *FileSource {
	return &FileSource{
		name: path,
		open: func() (io.Reader, io.Closer, error) {
			return openFile(path)
		},
	}
}

// NewReaderSource creates a LineSource over r, identified by name.
// Closing the source does not close r.
func NewReaderSource(name string, r io.Reader) *FileSource {
	return &FileSource{
		name: name,
		open: func() (io.Reader, io.Closer, error) {
			return r, nil, nil
		},
	}
}

// Name returns the source name.
func (s *FileSource) Name() string {
	return s.name
}

// Next returns the next line of the source.
// Returns io.EOF once the source is exhausted.
func (s *FileSource) Next(ctx context.Context) (*Line, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if s.done {
		return nil, io.EOF
	}

	if s.scanner == nil {
		r, closer, err := s.open()
		if err != nil {
			s.done = true
			return nil, err
		}
		s.closer = closer
		s.scanner = bufio.NewScanner(r)
		s.scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	}

	if s.scanner.Scan() {
		s.lineNum++
		return &Line{
			Text:    s.scanner.Text(),
			Source:  s.name,
			LineNum: s.lineNum,
		}, nil
	}

	s.done = true
	if err := s.scanner.Err(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("reading %s: %w", s.name, err)
	}

	if err := s.Close(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// Close releases resources. It is safe to call more than once.
func (s *FileSource) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

// openFile opens path and wraps it in the decoder matching its extension.
func openFile(path string) (io.Reader, io.Closer, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	r, decoder, err := decompress(DetectCompression(path), f)
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	return r, closers{decoder, f}, nil
}
