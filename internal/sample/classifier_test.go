package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsModelType_ModelSamples(t *testing.T) {
	model := []string{
		"PDX",
		"pdx",
		"PDX Model",
		"patient-derived xenograft",
		"Patient Derived Xenograft",
		"patientderived xenograft",
		"Xenograft",
		"xenograft model",
		"Cell Line",
		"cell_line",
		"cell-line",
		"cellline",
		"In Vitro",
		"in-vitro",
		"invitro",
		"Model",
		"tumor model",
		"CCLE",
	}
	for _, value := range model {
		assert.True(t, IsModelType(value), "expected model: %q", value)
	}
}

func TestIsModelType_PatientSamples(t *testing.T) {
	patient := []string{
		"Patient",
		"Primary Tumor",
		"Metastatic",
		"Normal",
		"Tumor",
		"",
		"   ",
	}
	for _, value := range patient {
		assert.False(t, IsModelType(value), "expected patient: %q", value)
	}
}

func TestIsModelType_WordBoundaries(t *testing.T) {
	// The bare "model" rule must not fire inside unrelated tokens.
	assert.False(t, IsModelType("modeling"))
	assert.False(t, IsModelType("remodeled tissue"))
	assert.False(t, IsModelType("pdx1"), "gene symbol PDX1 is not a PDX sample")
}
