package merge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMutationFiles(t *testing.T) {
	root := t.TempDir()
	writeMutationFile(t, root, "zz_study", mutationHeader)
	writeMutationFile(t, root, "aa_study", mutationHeader)
	writeMutationFile(t, root, "mm_study", mutationHeader)

	// Sibling files without the prefix are ignored.
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "aa_study", "data_clinical_sample.txt"),
		[]byte("sample_id\tsample_type\n"), 0o644))

	files, err := FindMutationFiles(root)
	require.NoError(t, err)
	require.Len(t, files, 3)

	// Sorted path order.
	assert.Less(t, files[0], files[1])
	assert.Less(t, files[1], files[2])
	for _, f := range files {
		assert.Contains(t, filepath.Base(f), "data_mutations")
	}
}

func TestMerger_Run(t *testing.T) {
	root := t.TempDir()
	writeMutationFile(t, root, "brca_tcga",
		mutationHeader+
			"TP53\tSNP\tp.R175H\tS1\tmissense_variant\n"+
			"TP53\tSNP\tp.R273C\tS2\tmissense_variant\n"+
			"KRAS\tSNP\tp.G12D\tMODEL1\tmissense_variant\n")
	writeMutationFile(t, root, "luad_broad",
		mutationHeader+
			"EGFR\tSNP\tp.L858R\tS3\tmissense_variant\n"+
			"TP53\tDEL\tp.K45Lfs*12\tS3\tframeshift_variant\n")

	m := NewMerger(modelSet("MODEL1"))
	res, err := m.Run(root)
	require.NoError(t, err)

	require.Len(t, res.Records, 4)
	assert.Equal(t, 1, res.RowsFiltered)

	// File-processing order is sorted path order; rows keep input order.
	assert.Equal(t, "brca_tcga", res.Records[0].Project)
	assert.Equal(t, "brca_tcga", res.Records[1].Project)
	assert.Equal(t, "luad_broad", res.Records[2].Project)
	assert.Equal(t, "luad_broad", res.Records[3].Project)

	// Gene counts in first-seen order.
	require.Len(t, res.GeneCounts, 2)
	assert.Equal(t, GeneCount{Gene: "TP53", Count: 3}, res.GeneCounts[0])
	assert.Equal(t, GeneCount{Gene: "EGFR", Count: 1}, res.GeneCounts[1])
}

func TestMerger_FirstSortedDuplicateWins(t *testing.T) {
	root := t.TempDir()
	// Same (study, center) identity under two parents; "a" sorts first.
	writeMutationFile(t, root, "a/brca_tcga",
		mutationHeader+"TP53\tSNP\tp.R175H\tS1\tmissense_variant\n")
	writeMutationFile(t, root, "b/brca_tcga",
		mutationHeader+"KRAS\tSNP\tp.G12D\tS2\tmissense_variant\n")

	m := NewMerger(nil)
	res, err := m.Run(root)
	require.NoError(t, err)

	require.Len(t, res.Records, 1)
	assert.Equal(t, "TP53", res.Records[0].Gene)
	assert.Equal(t, 1, res.FilesSkipped)
}

func TestMerger_MissingRoot(t *testing.T) {
	m := NewMerger(nil)
	_, err := m.Run("/nonexistent/root/12345")
	assert.Error(t, err)
}

func TestMerger_EmptyRunCompletes(t *testing.T) {
	m := NewMerger(nil)
	res, err := m.Run(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, res.Records)
	assert.Empty(t, res.GeneCounts)
}
