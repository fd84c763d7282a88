// Package tabular provides helpers for reading the loosely structured
// tab- or comma-delimited tables that cBioPortal study directories contain:
// delimiter detection, comment-aware header parsing, and flexible column
// resolution across heterogeneous schemas.
package tabular

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Supported delimiters. Study files are either TSV or CSV; nothing else is
// recognized.
const (
	Tab   = '\t'
	Comma = ','
)

// DetectDelimiter inspects the first non-comment line of the file at path
// and returns the delimiter used. Ties and empty files resolve to tab.
func DetectDelimiter(path string) (rune, error) {
	f, err := os.Open(path)
	if err != nil {
		return Tab, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return DetectDelimiterFrom(f), nil
}

// DetectDelimiterFrom reads from r until the first non-comment line and
// picks between tab and comma by majority count. An empty or all-comment
// input yields tab.
func DetectDelimiterFrom(r io.Reader) rune {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Count(line, "\t") >= strings.Count(line, ",") {
			return Tab
		}
		return Comma
	}
	return Tab
}

// ResolveColumn returns the index of the first header matching any of the
// candidate names, or -1 if none match. Candidates are tried in priority
// order; for each candidate the headers are scanned left to right. Matching
// is exact and case-insensitive after trimming whitespace.
func ResolveColumn(headers []string, candidates []string) int {
	cleaned := make([]string, len(headers))
	for i, h := range headers {
		cleaned[i] = strings.ToLower(strings.TrimSpace(h))
	}

	for _, cand := range candidates {
		want := strings.ToLower(strings.TrimSpace(cand))
		for i, h := range cleaned {
			if h == want {
				return i
			}
		}
	}
	return -1
}

// Field returns fields[idx] or the empty string when idx is unresolved (-1)
// or the row is too short. Ragged rows are expected in study files.
func Field(fields []string, idx int) string {
	if idx < 0 || idx >= len(fields) {
		return ""
	}
	return fields[idx]
}

// File reads a delimited study file row by row. Leading lines starting
// with '#' are skipped; the first remaining line is the header. Data rows
// are split on the detected delimiter with no quoting or escaping, which
// matches how these files are written.
type File struct {
	f       *os.File
	scanner *bufio.Scanner
	delim   string
	header  []string
	line    int
}

// Open detects the file's delimiter and positions the reader after the
// header line. A file with no header (empty or all comments) opens
// successfully with a nil Header; Next then reports no rows.
func Open(path string) (*File, error) {
	delim, err := DetectDelimiter(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	t := &File{
		f:     f,
		delim: string(delim),
	}
	t.scanner = bufio.NewScanner(f)
	t.scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	if err := t.readHeader(); err != nil {
		f.Close()
		return nil, err
	}
	return t, nil
}

func (t *File) readHeader() error {
	for t.scanner.Scan() {
		t.line++
		line := strings.TrimRight(t.scanner.Text(), "\r")
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		t.header = strings.Split(line, t.delim)
		return nil
	}
	return t.scanner.Err()
}

// Header returns the parsed header fields, or nil for a headerless file.
func (t *File) Header() []string {
	return t.header
}

// Delimiter returns the detected delimiter.
func (t *File) Delimiter() rune {
	return rune(t.delim[0])
}

// Next returns the fields of the next data row, skipping comment and blank
// lines. It returns nil, nil at end of file. A trailing line without a
// newline is still returned as a row.
func (t *File) Next() ([]string, error) {
	for t.scanner.Scan() {
		t.line++
		line := strings.TrimRight(t.scanner.Text(), "\r")
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}
		return strings.Split(line, t.delim), nil
	}
	if err := t.scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s line %d: %w", t.f.Name(), t.line, err)
	}
	return nil, nil
}

// Line returns the number of the last line read.
func (t *File) Line() int {
	return t.line
}

// Close closes the underlying file.
func (t *File) Close() error {
	return t.f.Close()
}
