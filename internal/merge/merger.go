package merge

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// MutationFilePrefix is the base-name prefix that marks a mutation data
// file inside a study directory.
const MutationFilePrefix = "data_mutations"

// FindMutationFiles returns every mutation file under root, in sorted path
// order. Sort order matters: it fixes which file wins when two studies
// derive the same identity.
func FindMutationFiles(root string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasPrefix(d.Name(), MutationFilePrefix) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

// GeneCount is one entry of the per-gene summary.
type GeneCount struct {
	Gene  string
	Count int
}

// Result is the outcome of a merge run: all kept records in processing
// order and gene counts in first-seen order, plus run statistics.
type Result struct {
	Records    []Record
	GeneCounts []GeneCount

	FilesFound   int
	FilesSkipped int
	RowsFiltered int
}

// Merger drives a merge run: it discovers mutation files, deduplicates
// studies, invokes the processor per file and aggregates the output.
type Merger struct {
	proc   *Processor
	logger *zap.Logger
}

// NewMerger creates a merger that filters out the given model samples.
func NewMerger(modelSamples map[string]struct{}) *Merger {
	return &Merger{
		proc:   NewProcessor(modelSamples),
		logger: zap.NewNop(),
	}
}

// SetIncludeModel disables all model filtering.
func (m *Merger) SetIncludeModel(include bool) {
	m.proc.SetIncludeModel(include)
}

// SetLogger sets the logger for diagnostic messages on the merger and its
// processor.
func (m *Merger) SetLogger(logger *zap.Logger) {
	m.logger = logger
	m.proc.SetLogger(logger)
}

// Run merges every mutation file under root. A run always completes; files
// that cannot be processed contribute no records.
func (m *Merger) Run(root string) (*Result, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("input dir: %w", err)
	}

	files, err := FindMutationFiles(root)
	if err != nil {
		return nil, err
	}
	m.logger.Info("found mutation files", zap.Int("count", len(files)))

	res := &Result{FilesFound: len(files)}
	seen := make(map[string]struct{})
	counts := make(map[string]int)
	var order []string

	for _, file := range files {
		records, stats := m.proc.Process(file, seen)
		if stats.Skipped {
			res.FilesSkipped++
		}
		res.RowsFiltered += stats.Filtered

		for _, rec := range records {
			res.Records = append(res.Records, rec)
			if counts[rec.Gene] == 0 {
				order = append(order, rec.Gene)
			}
			counts[rec.Gene]++
		}
	}

	for _, gene := range order {
		res.GeneCounts = append(res.GeneCounts, GeneCount{Gene: gene, Count: counts[gene]})
	}

	m.logger.Info("merge complete",
		zap.Int("records", len(res.Records)),
		zap.Int("genes", len(res.GeneCounts)),
		zap.Int("files_skipped", res.FilesSkipped),
		zap.Int("rows_filtered", res.RowsFiltered))
	return res, nil
}
