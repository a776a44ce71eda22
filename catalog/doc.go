// Package catalog reads the per-layer SAE feature records and concept taxonomies
// that accompany the embedding store.
//
// Blob layout (relative to the store root):
//
//	<dataset>.json                                            concept taxonomy
//	filtered_layers_threshold_0.4_<dataset>/conceptSAE_layer_<n>.json  feature records
//	explanations/explanations_layer_<n>.json                  explanations by feature index
//
// The record files are precomputed at BaseThreshold. FilterByThreshold narrows
// them to a stricter similarity threshold and recomputes each record's
// categories from the taxonomy. Decoded files are cached in a byte-bounded LRU.
package catalog
