package catalog

import (
	"slices"
)

// FilterByThreshold keeps, per record, the concepts whose similarity is at
// least threshold, drops records left without concepts and recomputes
// AllCategories from c2c. Records are returned unchanged when threshold
// equals BaseThreshold. The input is never modified.
func FilterByThreshold(records []Record, threshold float64, c2c ConceptToCategory) []Record {
	if threshold == BaseThreshold {
		return records
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		var concepts []string
		var sims []float64
		for i, sim := range r.CosineSimilarity {
			if sim >= threshold && i < len(r.Concept) {
				concepts = append(concepts, r.Concept[i])
				sims = append(sims, sim)
			}
		}
		if len(concepts) == 0 {
			continue
		}

		var cats []string
		for _, c := range concepts {
			for _, cat := range c2c[c] {
				if !slices.Contains(cats, cat) {
					cats = append(cats, cat)
				}
			}
		}
		slices.Sort(cats)

		out = append(out, Record{
			Index:            r.Index,
			CosineSimilarity: sims,
			Concept:          concepts,
			FracNonzero:      r.FracNonzero,
			Layer:            r.Layer,
			AllCategories:    cats,
			Explanation:      r.Explanation,
		})
	}
	return out
}

// FilterByCategories keeps the records carrying any of categories.
// An empty category list keeps every record.
func FilterByCategories(records []Record, categories []string) []Record {
	if len(categories) == 0 {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if slices.ContainsFunc(categories, r.HasCategory) {
			out = append(out, r)
		}
	}
	return out
}

// AttachExplanations returns copies of records with Explanation set from
// explanations by feature index. Indices outside explanations get nil.
func AttachExplanations(records []Record, explanations []any) []Record {
	out := slices.Clone(records)
	for i := range out {
		idx := out[i].Index
		if idx >= 0 && idx < len(explanations) {
			out[i].Explanation = explanations[idx]
		} else {
			out[i].Explanation = nil
		}
	}
	return out
}
