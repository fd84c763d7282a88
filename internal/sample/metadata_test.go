package sample

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const metadataTSV = `sample_id	sample_type	other
SAMPLE001	Patient	x
SAMPLE002	PDX	x
SAMPLE003	Patient	x
SAMPLE004	Cell Line	x
SAMPLE005	Primary Tumor	x
SAMPLE006	xenograft	x
SAMPLE007	Metastatic	x
SAMPLE008	patient-derived xenograft	x
`

func writeMeta(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := writeMeta(t, dir, "clinical_sample.tsv", metadataTSV)

	got := NewLoader().Load(path)

	require.Len(t, got, 8)
	assert.False(t, got.IsModel("SAMPLE001"))
	assert.True(t, got.IsModel("SAMPLE002"))
	assert.False(t, got.IsModel("SAMPLE003"))
	assert.True(t, got.IsModel("SAMPLE004"))
	assert.False(t, got.IsModel("SAMPLE005"))
	assert.True(t, got.IsModel("SAMPLE006"))
	assert.False(t, got.IsModel("SAMPLE007"))
	assert.True(t, got.IsModel("SAMPLE008"))
}

func TestLoad_FromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeMeta(t, dir, "clinical_sample.tsv", metadataTSV)

	got := NewLoader().Load(dir)

	assert.NotEmpty(t, got)
	assert.Contains(t, got, "SAMPLE001")
}

func TestLoad_DiscoversGlobMatches(t *testing.T) {
	dir := t.TempDir()
	writeMeta(t, dir, "study_sample_sheet.tsv",
		"sample_id\tsample_type\nS1\tPDX\n")

	got := NewLoader().Load(dir)

	assert.True(t, got.IsModel("S1"))
}

func TestLoad_LaterFileWins(t *testing.T) {
	dir := t.TempDir()
	// Canonical names are discovered before glob matches; the later file
	// overrides the shared identifier.
	writeMeta(t, dir, "metadata.tsv",
		"sample_id\tsample_type\nS1\tPDX\n")
	writeMeta(t, dir, "zz_clinical_extra.tsv",
		"sample_id\tsample_type\nS1\tPatient\nS2\tPDX\n")

	got := NewLoader().Load(dir)

	assert.False(t, got.IsModel("S1"))
	assert.True(t, got.IsModel("S2"))
}

func TestLoad_ExtraPaths(t *testing.T) {
	dir := t.TempDir()
	extra := writeMeta(t, dir, "extra.txt",
		"sample_id\tsample_type\nS9\tcell line\n")

	got := NewLoader().Load(filepath.Join(dir, "nothing-here"), extra, "/no/such/file")

	assert.True(t, got.IsModel("S9"))
}

func TestLoad_NonexistentPath(t *testing.T) {
	got := NewLoader().Load("/nonexistent/path/12345")
	assert.Empty(t, got)
}

func TestLoad_UnresolvableColumnsContributeNothing(t *testing.T) {
	dir := t.TempDir()
	writeMeta(t, dir, "samples.tsv", "id\tdescription\nS1\tPDX\n")

	got := NewLoader().Load(dir)
	assert.Empty(t, got)
}

func TestLoad_CSVMetadata(t *testing.T) {
	dir := t.TempDir()
	writeMeta(t, dir, "sample_metadata.csv",
		"sample_id,sample_type\nS1,PDX\nS2,Patient\n")

	got := NewLoader().Load(dir)

	assert.True(t, got.IsModel("S1"))
	assert.False(t, got.IsModel("S2"))
}

func TestLoad_SkipsShortAndEmptyRows(t *testing.T) {
	dir := t.TempDir()
	writeMeta(t, dir, "samples.tsv",
		"sample_id\tsample_type\nS1\tPDX\nS2\n\t\nS3\tPatient\n")

	got := NewLoader().Load(dir)

	require.Len(t, got, 2)
	assert.True(t, got.IsModel("S1"))
	assert.False(t, got.IsModel("S3"))
}

func TestModelSet(t *testing.T) {
	c := Classifications{"A": true, "B": false, "C": true}

	set := c.ModelSet()
	assert.Len(t, set, 2)
	assert.Contains(t, set, "A")
	assert.Contains(t, set, "C")
}
