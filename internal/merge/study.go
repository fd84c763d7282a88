// Package merge filters and combines mutation files from cBioPortal study
// directories into a single record stream with per-gene counts.
package merge

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Study identifies the study a mutation file belongs to, derived from the
// file's location. Study directories are conventionally named
// <study>_<center>[_<suffix>], e.g. "brca_tcga" or "luad_broad_2023".
type Study struct {
	Project string
	Name    string
	Center  string
}

// StudyFromPath derives study identity from a mutation file path. The
// parent directory name is the project; splitting it on underscores gives
// the study name and center. A name with no underscore has an empty center.
func StudyFromPath(path string) Study {
	project := filepath.Base(filepath.Dir(path))
	if project == "." || project == string(filepath.Separator) {
		project = ""
	}

	s := Study{Project: project, Name: project}
	if parts := strings.Split(project, "_"); len(parts) >= 2 {
		s.Name = parts[0]
		s.Center = parts[1]
	}
	return s
}

// Key returns the deduplication key: at most one file per key is merged.
func (s Study) Key() string {
	return s.Name + s.Center
}

// modelStudyPatterns match paths of studies that are known to contain only
// model data. Matched against the lowercased full path. The bare "test"
// token is kept from the legacy heuristic: word boundaries keep it from
// hitting inside longer words ("testis") or underscore-joined names, but a
// path segment literally named "test" is skipped.
var modelStudyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bccle\b`),
	regexp.MustCompile(`\bpdx\b`),
	regexp.MustCompile(`\bcellline\b`),
	regexp.MustCompile(`\bcell_line\b`),
	regexp.MustCompile(`\bxenograft\b`),
	regexp.MustCompile(`\btest\b`),
}

// IsModelStudyPath reports whether a file path indicates a model study by
// directory or file naming alone.
func IsModelStudyPath(path string) bool {
	lower := strings.ToLower(path)
	for _, p := range modelStudyPatterns {
		if p.MatchString(lower) {
			return true
		}
	}
	return false
}
