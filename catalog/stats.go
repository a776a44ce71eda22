package catalog

import (
	"cmp"
	"math"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// CategoryCount is the number of records carrying a category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Overlap is the share of a category's records that also carry the selected category.
type Overlap struct {
	OverlapCount      int     `json:"overlap_count"`
	OverlapPercentage float64 `json:"overlap_percentage"`
}

// PinnedOverlap is an Overlap together with its category and size.
type PinnedOverlap struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
	Overlap
}

// CategoryDistribution counts records per category, largest first.
// Ties are ordered by category name.
func CategoryDistribution(records []Record) []CategoryCount {
	counts := make(map[string]int)
	for _, r := range records {
		for _, c := range r.AllCategories {
			counts[c]++
		}
	}

	out := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, CategoryCount{Category: c, Count: n})
	}
	slices.SortFunc(out, func(a, b CategoryCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return out
}

// Concepts returns the distinct concepts of records in ascending order.
func Concepts(records []Record) []string {
	out := []string{}
	for _, r := range records {
		out = append(out, r.Concept...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// SearchConcept returns the feature indices of records listing concept, in
// record order, and the category distribution of those records.
func SearchConcept(records []Record, concept string) ([]int, []CategoryCount) {
	indices := []int{}
	var matching []Record
	for _, r := range records {
		if r.HasConcept(concept) {
			indices = append(indices, r.Index)
			matching = append(matching, r)
		}
	}
	return indices, CategoryDistribution(matching)
}

// categorySets maps each category to the bitmap of feature indices carrying it.
func categorySets(records []Record) map[string]*roaring.Bitmap {
	sets := make(map[string]*roaring.Bitmap)
	for _, r := range records {
		if r.Index < 0 {
			continue
		}
		for _, c := range r.AllCategories {
			bm, ok := sets[c]
			if !ok {
				bm = roaring.New()
				sets[c] = bm
			}
			bm.Add(uint32(r.Index))
		}
	}
	return sets
}

// CategoryOverlaps returns, for every other category, how many of its
// features also carry selected. The result is empty when no record carries selected.
func CategoryOverlaps(records []Record, selected string) map[string]Overlap {
	out := make(map[string]Overlap)
	for _, p := range PinnedOverlaps(records, selected) {
		out[p.Category] = p.Overlap
	}
	return out
}

// PinnedOverlaps lists every other category with its overlap against pinned,
// largest overlap first. Ties are ordered by category name.
func PinnedOverlaps(records []Record, pinned string) []PinnedOverlap {
	sets := categorySets(records)
	base, ok := sets[pinned]
	if !ok {
		return []PinnedOverlap{}
	}

	out := make([]PinnedOverlap, 0, len(sets)-1)
	for c, bm := range sets {
		if c == pinned {
			continue
		}
		n := int(bm.GetCardinality())
		shared := int(roaring.And(base, bm).GetCardinality())
		out = append(out, PinnedOverlap{
			Category: c,
			Count:    n,
			Overlap: Overlap{
				OverlapCount:      shared,
				OverlapPercentage: round(float64(shared)/float64(n)*100, 1),
			},
		})
	}
	slices.SortFunc(out, func(a, b PinnedOverlap) int {
		if a.OverlapCount != b.OverlapCount {
			return b.OverlapCount - a.OverlapCount
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return out
}

// LayerSummary describes concept coverage of one layer.
type LayerSummary struct {
	Layer              int     `json:"layer"`
	ConceptCoverage    float64 `json:"concept_coverage"`
	TotalSAEs          int     `json:"total_saes"`
	IdentifiedConcepts int     `json:"identified_concepts"`
}

// Summarize computes the coverage of a layer's records against totalConcepts.
func Summarize(layer int, records []Record, totalConcepts int) LayerSummary {
	identified := len(Concepts(records))
	coverage := 0.0
	if totalConcepts > 0 {
		coverage = round(float64(identified)/float64(totalConcepts)*100, 2)
	}
	return LayerSummary{
		Layer:              layer,
		ConceptCoverage:    coverage,
		TotalSAEs:          len(records),
		IdentifiedConcepts: identified,
	}
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
