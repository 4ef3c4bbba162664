package store

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bactwatch/amrpipe/internal/classify"
)

func sampleResults() []classify.Result {
	return []classify.Result{
		{
			GenomeID:    "ACC1",
			Gene:        "gyrA",
			Token:       "S83L",
			Status:      classify.StatusResistant,
			Phenotype:   "Fluoroquinolone resistance",
			StructureID: "3NUU",
			Confidence:  1.0,
			Source:      classify.SourceKnowledgeBase,
		},
		{
			GenomeID:    "ACC1",
			Gene:        "gyrA",
			Token:       "A119E",
			Status:      classify.StatusVUS,
			StructureID: "N/A",
			Source:      classify.SourceNone,
		},
		{
			GenomeID:    "ACC2",
			Gene:        "parC",
			Token:       "S80I",
			Status:      "Predicted High Risk",
			StructureID: "N/A",
			Confidence:  0.91,
			Source:      classify.SourceModel,
		},
	}
}

func TestSaveAndCount(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "results.duckdb"))
	require.NoError(t, err)
	defer s.Close()

	runID := uuid.NewString()
	require.NoError(t, s.SaveResults(runID, sampleResults()))

	n, err := s.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	// Second run appends rather than overwrites.
	require.NoError(t, s.SaveResults(uuid.NewString(), sampleResults()[:1]))
	n, err = s.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestSummary(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveResults(uuid.NewString(), sampleResults()))

	summary, err := s.Summary()
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, SummaryRow{Gene: "gyrA", Status: classify.StatusResistant, Count: 1}, summary[0])
	assert.Equal(t, SummaryRow{Gene: "gyrA", Status: classify.StatusVUS, Count: 1}, summary[1])
	assert.Equal(t, SummaryRow{Gene: "parC", Status: "Predicted High Risk", Count: 1}, summary[2])
}

func TestSaveEmptyRun(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveResults(uuid.NewString(), nil))
	n, err := s.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}
