// Package output writes merged mutation records and gene-count summaries.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/inodb/mafmerge/internal/merge"
)

// RecordWriter writes merged mutation records as tab-delimited lines, one
// record per line, no header.
type RecordWriter struct {
	w *bufio.Writer
}

// NewRecordWriter creates a record writer on w.
func NewRecordWriter(w io.Writer) *RecordWriter {
	return &RecordWriter{w: bufio.NewWriter(w)}
}

// Write writes a single record line.
func (rw *RecordWriter) Write(rec merge.Record) error {
	_, err := rw.w.WriteString(strings.Join(rec.Fields(), "\t") + "\n")
	return err
}

// WriteAll writes records in order.
func (rw *RecordWriter) WriteAll(records []merge.Record) error {
	for _, rec := range records {
		if err := rw.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes buffered output.
func (rw *RecordWriter) Flush() error {
	return rw.w.Flush()
}

// WriteGeneCounts writes gene<TAB>count lines in the order given, which is
// the order genes were first encountered during the merge.
func WriteGeneCounts(w io.Writer, counts []merge.GeneCount) error {
	bw := bufio.NewWriter(w)
	for _, gc := range counts {
		if _, err := fmt.Fprintf(bw, "%s\t%d\n", gc.Gene, gc.Count); err != nil {
			return err
		}
	}
	return bw.Flush()
}
