package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryDistribution(t *testing.T) {
	assert.Equal(t, []CategoryCount{
		{Category: "animal", Count: 2},
		{Category: "tool", Count: 2},
		{Category: "pet", Count: 1},
	}, CategoryDistribution(testRecords()))

	assert.Empty(t, CategoryDistribution(nil))
}

func TestConcepts(t *testing.T) {
	assert.Equal(t, []string{"cat", "dog", "hammer"}, Concepts(testRecords()))
	assert.Equal(t, []string{}, Concepts(nil))
}

func TestSearchConcept(t *testing.T) {
	indices, dist := SearchConcept(testRecords(), "hammer")
	assert.Equal(t, []int{0, 7}, indices)
	assert.Equal(t, []CategoryCount{
		{Category: "tool", Count: 2},
		{Category: "animal", Count: 1},
		{Category: "pet", Count: 1},
	}, dist)

	indices, dist = SearchConcept(testRecords(), "zebra")
	assert.Equal(t, []int{}, indices)
	assert.Empty(t, dist)
}

func TestPinnedOverlaps(t *testing.T) {
	got := PinnedOverlaps(testRecords(), "animal")
	assert.Equal(t, []PinnedOverlap{
		{Category: "pet", Count: 1, Overlap: Overlap{OverlapCount: 1, OverlapPercentage: 100}},
		{Category: "tool", Count: 2, Overlap: Overlap{OverlapCount: 1, OverlapPercentage: 50}},
	}, got)

	assert.Empty(t, PinnedOverlaps(testRecords(), "color"))
}

func TestCategoryOverlaps(t *testing.T) {
	records := append(testRecords(), Record{Index: 9, AllCategories: []string{"tool"}})

	got := CategoryOverlaps(records, "pet")
	assert.Equal(t, map[string]Overlap{
		"animal": {OverlapCount: 1, OverlapPercentage: 50},
		"tool":   {OverlapCount: 1, OverlapPercentage: 33.3},
	}, got)
}

func TestSummarize(t *testing.T) {
	s := Summarize(6, testRecords(), 4)
	assert.Equal(t, LayerSummary{Layer: 6, ConceptCoverage: 75, TotalSAEs: 3, IdentifiedConcepts: 3}, s)

	assert.Equal(t, 0.0, Summarize(6, testRecords(), 0).ConceptCoverage)
}
