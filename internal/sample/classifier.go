// Package sample classifies biological samples as patient-derived or
// model-derived (PDX, cell line, xenograft) and loads sample metadata
// files into a classification index.
package sample

import (
	"regexp"
	"strings"
)

// modelTypeRules match sample-type values that denote a model-derived
// sample. Rules are evaluated in order with first-match-wins; all are
// word-bounded so that e.g. "model" does not match inside "modeling".
var modelTypeRules = []*regexp.Regexp{
	regexp.MustCompile(`\bpdx\b`),
	regexp.MustCompile(`patient[- ]?derived[- ]?xenograft`),
	regexp.MustCompile(`\bxenograft\b`),
	regexp.MustCompile(`cell[-_ ]?line`),
	regexp.MustCompile(`\bcellline\b`),
	regexp.MustCompile(`in[- ]?vitro`),
	regexp.MustCompile(`\bmodel\b`),
	regexp.MustCompile(`\bccle\b`),
}

// IsModelType reports whether a free-text sample-type value denotes a
// model-derived sample. Empty values are patient samples.
func IsModelType(value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return false
	}
	for _, rule := range modelTypeRules {
		if rule.MatchString(value) {
			return true
		}
	}
	return false
}
