// Package server exposes ball-cover graphs and feature records over HTTP.
//
// Routes:
//
//	GET  /health
//	GET  /metrics
//	GET  /api/datasets
//	GET  /api/concept-datasets
//	POST /api/load-data
//	GET  /api/layer-data/{layer}
//	GET  /api/layer/{layer}/ballmapper
//	GET  /api/nearest-saes/{layer}/{index}
//	GET  /api/sae-details/{layer}/{index}
//	GET  /api/concepts/{layer}
//	GET  /api/search-concept/{layer}
//	GET  /api/category-overlaps/{layer}
//	GET  /api/pinned-category-overlaps/{layer}
//
// Every layer route accepts threshold (default 0.5) and concept_dataset_id
// (default thingsplus). Errors are returned as {"error": "..."} with
// 400 for invalid parameters, 404 for missing data and 422 when the selected
// features cannot form a graph.
package server
