// Package dump extracts file paths from trust database dump lines.
package dump

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

const (
	commentPrefix    = "#"
	pathFieldIndex   = 1
	minimumFieldSize = pathFieldIndex + 1
	maxLineBytes     = 1024 * 1024

	errorReadFormat = "read dump: %w"

	skippedLineMessage = "skipping dump line without a path field"
)

// Stats counts the lines seen by a Reader.
type Stats struct {
	Lines     int
	Paths     int
	Skipped   int
	Malformed int
}

// ParsePath returns the second whitespace-delimited field of a dump line.
// Blank lines, comments, and lines with fewer than two fields yield false.
func ParsePath(line string) (string, bool) {
	trimmedLine := strings.TrimSpace(line)
	if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
		return "", false
	}
	fields := strings.Fields(trimmedLine)
	if len(fields) < minimumFieldSize {
		return "", false
	}
	return fields[pathFieldIndex], true
}

// Reader scans dump lines from an io.Reader.
type Reader struct {
	source io.Reader
	logger *zap.Logger
	stats  Stats
}

// NewReader returns a Reader over source. A nil logger discards debug output.
func NewReader(source io.Reader, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{source: source, logger: logger}
}

// Stream sends every extracted path to out until the input ends or ctx is done.
// out is not closed.
func (reader *Reader) Stream(ctx context.Context, out chan<- string) error {
	return reader.scan(func(path string) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- path:
			return nil
		}
	})
}

func (reader *Reader) scan(handle func(path string) error) error {
	scanner := bufio.NewScanner(reader.source)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), maxLineBytes)
	for scanner.Scan() {
		line := scanner.Text()
		reader.stats.Lines++
		path, ok := ParsePath(line)
		if !ok {
			reader.recordSkip(line)
			continue
		}
		reader.stats.Paths++
		if handleError := handle(path); handleError != nil {
			return handleError
		}
	}
	if scanError := scanner.Err(); scanError != nil {
		return fmt.Errorf(errorReadFormat, scanError)
	}
	return nil
}

// Stats returns the line totals observed so far.
func (reader *Reader) Stats() Stats {
	return reader.stats
}

func (reader *Reader) recordSkip(line string) {
	reader.stats.Skipped++
	trimmedLine := strings.TrimSpace(line)
	if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
		return
	}
	reader.stats.Malformed++
	reader.logger.Debug(skippedLineMessage, zap.Int("line", reader.stats.Lines), zap.String("content", trimmedLine))
}
