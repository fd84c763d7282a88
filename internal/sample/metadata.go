package sample

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/mafmerge/internal/tabular"
)

// Canonical metadata filenames checked for in a study directory.
var metadataFilenames = []string{
	"metadata.tsv",
	"samples.tsv",
	"clinical_sample.tsv",
	"sample_metadata.csv",
	"sample_annotations.tsv",
	"clinical.tsv",
}

// Glob patterns for files likely to carry sample metadata.
var metadataGlobs = []string{
	"*sample*.tsv",
	"*sample*.csv",
	"*metadata*.tsv",
	"*metadata*.csv",
	"*clinical*.tsv",
	"*clinical*.csv",
}

// IDColumns are sample-identifier column names, in priority order.
var IDColumns = []string{
	"sample_id",
	"sample",
	"tumor_sample_barcode",
	"sample_barcode",
	"samplebarcode",
	"sampleid",
	"tumor_sample_id",
}

// TypeColumns are sample-type column names, in priority order.
var TypeColumns = []string{
	"sample_type",
	"sampletype",
	"sample_type_detail",
	"model",
	"is_model",
	"sample_class",
	"sampleclass",
}

// Classifications maps a sample identifier to whether it is a model sample.
type Classifications map[string]bool

// IsModel reports whether id is a known model sample.
func (c Classifications) IsModel(id string) bool {
	return c[id]
}

// ModelSet returns the identifiers classified as model samples.
func (c Classifications) ModelSet() map[string]struct{} {
	set := make(map[string]struct{})
	for id, isModel := range c {
		if isModel {
			set[id] = struct{}{}
		}
	}
	return set
}

// Loader discovers and parses sample metadata files.
type Loader struct {
	logger *zap.Logger
}

// NewLoader creates a metadata loader.
func NewLoader() *Loader {
	return &Loader{logger: zap.NewNop()}
}

// SetLogger sets the logger for warning and info messages.
func (l *Loader) SetLogger(logger *zap.Logger) {
	l.logger = logger
}

// Load builds a classification index from metadata files. If pathOrDir is
// a file it is the sole source; if it is a directory, metadata files are
// discovered inside it. Extra paths are appended when they exist and are
// not already included. Later files override earlier entries for the same
// identifier. An empty result means no metadata is available and callers
// fall back to path heuristics.
func (l *Loader) Load(pathOrDir string, extra ...string) Classifications {
	var files []string

	if info, err := os.Stat(pathOrDir); err == nil {
		if info.IsDir() {
			files = l.discover(pathOrDir)
		} else {
			files = append(files, pathOrDir)
		}
	}

	for _, p := range extra {
		if info, err := os.Stat(p); err != nil || info.IsDir() {
			continue
		}
		if !containsPath(files, p) {
			files = append(files, p)
		}
	}

	merged := make(Classifications)
	for _, f := range files {
		entries, err := l.parseFile(f)
		if err != nil {
			l.logger.Warn("could not parse metadata file",
				zap.String("path", f),
				zap.Error(err))
			continue
		}
		l.logger.Debug("loaded metadata file",
			zap.String("path", f),
			zap.Int("samples", len(entries)))
		for id, isModel := range entries {
			merged[id] = isModel
		}
	}
	return merged
}

// discover returns metadata files in dir: exact canonical names first, then
// glob matches, deduplicated by path.
func (l *Loader) discover(dir string) []string {
	var found []string

	for _, name := range metadataFilenames {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			found = append(found, p)
		}
	}

	for _, pattern := range metadataGlobs {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		for _, m := range matches {
			if info, err := os.Stat(m); err != nil || info.IsDir() {
				continue
			}
			if !containsPath(found, m) {
				found = append(found, m)
			}
		}
	}
	return found
}

// parseFile extracts identifier -> model classification from one metadata
// file. A file whose sample-ID or sample-type column cannot be resolved
// contributes nothing; that is not an error.
func (l *Loader) parseFile(path string) (Classifications, error) {
	entries := make(Classifications)

	f, err := tabular.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	headers := f.Header()
	if len(headers) == 0 {
		return entries, nil
	}

	idIdx := tabular.ResolveColumn(headers, IDColumns)
	if idIdx < 0 {
		return entries, nil
	}
	typeIdx := tabular.ResolveColumn(headers, TypeColumns)
	if typeIdx < 0 {
		return entries, nil
	}

	need := idIdx
	if typeIdx > need {
		need = typeIdx
	}

	for {
		fields, err := f.Next()
		if err != nil {
			return nil, err
		}
		if fields == nil {
			break
		}
		if len(fields) <= need {
			continue
		}

		id := strings.TrimSpace(fields[idIdx])
		if id == "" {
			continue
		}
		entries[id] = IsModelType(fields[typeIdx])
	}
	return entries, nil
}

func containsPath(paths []string, p string) bool {
	for _, x := range paths {
		if x == p {
			return true
		}
	}
	return false
}
