package catalog

import (
	"slices"
)

// Known concept datasets.
const (
	ThingsPlus = "thingsplus"
	Subject    = "subject"
)

// BaseThreshold is the similarity threshold the record files were precomputed at.
const BaseThreshold = 0.4

// DefaultThreshold is the similarity threshold applied when a caller names none.
const DefaultThreshold = 0.5

// DatasetInfo describes a selectable dataset.
type DatasetInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Datasets returns the embedding datasets served.
func Datasets() []DatasetInfo {
	return []DatasetInfo{
		{ID: "gemmascope-res-65k", Name: "GemmaScope Res-65k", Description: "SAE directions and explanations for GemmaScope model"},
	}
}

// ConceptDatasets returns the concept taxonomies served.
func ConceptDatasets() []DatasetInfo {
	return []DatasetInfo{
		{ID: ThingsPlus, Name: "ThingsPlus", Description: "Human-defined concept dataset by Helman"},
		{ID: Subject, Name: "SubjectConcepts", Description: "Subject-based concept dataset"},
	}
}

// ValidDataset reports whether id names a known concept dataset.
func ValidDataset(id string) bool {
	return id == ThingsPlus || id == Subject
}

// Concept is a taxonomy entry.
type Concept struct {
	Member   string `json:"member"`
	UniqueID string `json:"uniqueID"`
}

// Taxonomy maps a category name to its concepts.
type Taxonomy map[string][]Concept

// ConceptToCategory maps a concept id to the categories it belongs to.
type ConceptToCategory map[string][]string

// ConceptToCategory indexes the taxonomy by concept unique id.
// Category lists are sorted.
func (t Taxonomy) ConceptToCategory() ConceptToCategory {
	m := make(ConceptToCategory)
	for category, concepts := range t {
		for _, c := range concepts {
			if !slices.Contains(m[c.UniqueID], category) {
				m[c.UniqueID] = append(m[c.UniqueID], category)
			}
		}
	}
	for _, cats := range m {
		slices.Sort(cats)
	}
	return m
}

// Members returns the number of distinct concept members.
func (t Taxonomy) Members() int {
	seen := make(map[string]struct{})
	for _, concepts := range t {
		for _, c := range concepts {
			seen[c.Member] = struct{}{}
		}
	}
	return len(seen)
}

// Record describes one SAE feature of a layer.
// CosineSimilarity[i] is the similarity of the feature to Concept[i].
type Record struct {
	Index            int       `json:"index"`
	CosineSimilarity []float64 `json:"cosine_similarity"`
	Concept          []string  `json:"concept"`
	FracNonzero      float64   `json:"frac_nonzero"`
	Layer            int       `json:"layer"`
	AllCategories    []string  `json:"all_categories"`
	Explanation      any       `json:"explanation"`
}

// HasCategory reports whether the record carries category.
func (r Record) HasCategory(category string) bool {
	return slices.Contains(r.AllCategories, category)
}

// HasConcept reports whether the record lists concept.
func (r Record) HasConcept(concept string) bool {
	return slices.Contains(r.Concept, concept)
}

// Indices returns the feature indices of records in order.
func Indices(records []Record) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.Index
	}
	return out
}

// Find returns the position of the record for feature index.
func Find(records []Record, index int) (int, bool) {
	for i, r := range records {
		if r.Index == index {
			return i, true
		}
	}
	return -1, false
}
