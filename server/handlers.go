package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/hupe1980/ballmap"
	"github.com/hupe1980/ballmap/catalog"
	"github.com/hupe1980/ballmap/distmat"
	"github.com/hupe1980/ballmap/graph"
	"github.com/hupe1980/ballmap/model"
)

// NearestK is the number of neighbors returned by the nearest-features route.
const NearestK = 3

var errRequired = errors.New("required")

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) datasets(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, catalog.Datasets())
}

func (s *Server) conceptDatasets(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, catalog.ConceptDatasets())
}

func (s *Server) loadData(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	req := loadDataRequest{Threshold: catalog.DefaultThreshold}
	if err := s.opts.Codec.Unmarshal(body, &req); err != nil {
		s.writeError(w, r, &errParam{name: "body", value: string(body), err: err})
		return
	}
	if err := validate.Struct(req); err != nil {
		s.writeError(w, r, err)
		return
	}

	summary, err := s.catalog.Summarize(r.Context(), req.ConceptDatasetID, req.Threshold)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

// records returns the threshold-filtered records of the queried layer with explanations attached.
func (s *Server) records(r *http.Request, q layerQuery) ([]catalog.Record, error) {
	view, err := s.catalog.View(r.Context(), q.ConceptDatasetID, q.Layer, q.Threshold)
	if err != nil {
		return nil, err
	}
	explanations, err := s.catalog.Explanations(r.Context(), q.Layer)
	if err != nil {
		return nil, err
	}
	return catalog.AttachExplanations(view.Records, explanations), nil
}

type layerDataResponse struct {
	Layer                int                     `json:"layer"`
	SAEs                 []catalog.Record        `json:"saes"`
	CategoryDistribution []catalog.CategoryCount `json:"category_distribution"`
	TotalSAEs            int                     `json:"total_saes"`
}

func (s *Server) layerData(w http.ResponseWriter, r *http.Request) {
	q, err := parseLayerQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	records, err := s.records(r, q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, layerDataResponse{
		Layer:                q.Layer,
		SAEs:                 records,
		CategoryDistribution: catalog.CategoryDistribution(records),
		TotalSAEs:            len(records),
	})
}

type nodeResponse struct {
	ID         graph.NodeID     `json:"id"`
	Landmark   model.PointID    `json:"landmark"`
	SAEIndices []model.PointID  `json:"sae_indices"`
	SAECount   int              `json:"sae_count"`
	SAEs       []catalog.Record `json:"saes"`
}

type edgeResponse struct {
	Source     graph.NodeID    `json:"source"`
	Target     graph.NodeID    `json:"target"`
	CommonSAEs []model.PointID `json:"common_saes"`
}

type ballmapperResponse struct {
	CategoryFilter    *string        `json:"category_filter"`
	Nodes             []nodeResponse `json:"nodes"`
	Edges             []edgeResponse `json:"edges"`
	TotalSAEs         int            `json:"total_saes"`
	OriginalTotalSAEs int            `json:"original_total_saes"`
	OriginalNodes     int            `json:"original_nodes"`
	OriginalEdges     int            `json:"original_edges"`
	ComputedEpsilon   *float64       `json:"computed_epsilon"`
	UsedEpsilon       float64        `json:"used_epsilon"`
}

func (s *Server) ballmapper(w http.ResponseWriter, r *http.Request) {
	q, err := parseBallmapperQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	records, err := s.records(r, q.layerQuery)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	selected := catalog.FilterByCategories(records, q.filter())
	if len(selected) == 0 {
		s.writeError(w, r, fmt.Errorf("%w: no features for the given filter %v (%d features in layer %d)",
			errNotFound, q.filter(), len(records), q.Layer))
		return
	}

	emb, err := s.layers.Load(r.Context(), q.Layer)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	reference, err := emb.Points(catalog.Indices(records))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	points, err := emb.Points(catalog.Indices(selected))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rc := s.opts.ResourceController
	if err := rc.AcquireBuild(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	defer rc.ReleaseBuild()

	matrixBytes := distmat.BytesFor(len(points))
	if err := rc.AcquireMemory(r.Context(), matrixBytes); err != nil {
		s.writeError(w, r, err)
		return
	}
	defer rc.ReleaseMemory(matrixBytes)

	res, err := s.mapper.Build(r.Context(), ballmap.Request{
		Points:          points,
		ReferencePoints: reference,
		Radius:          q.Epsilon,
		MaxOverlap:      q.MaxSize,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	byIndex := make(map[int]catalog.Record, len(selected))
	for _, rec := range selected {
		byIndex[rec.Index] = rec
	}

	resp := ballmapperResponse{
		Nodes:             make([]nodeResponse, len(res.Graph.Nodes)),
		Edges:             make([]edgeResponse, len(res.Graph.Edges)),
		TotalSAEs:         len(selected),
		OriginalTotalSAEs: len(records),
		OriginalNodes:     res.RawNodes,
		OriginalEdges:     res.RawEdges,
		ComputedEpsilon:   res.ComputedRadius,
		UsedEpsilon:       res.Radius,
	}
	if q.Category != "" {
		resp.CategoryFilter = &q.Category
	}
	for i := range res.Graph.Nodes {
		n := &res.Graph.Nodes[i]
		ids := n.Points()
		saes := make([]catalog.Record, len(ids))
		for j, id := range ids {
			saes[j] = byIndex[int(id)]
		}
		resp.Nodes[i] = nodeResponse{
			ID:         n.ID,
			Landmark:   n.Landmark,
			SAEIndices: ids,
			SAECount:   len(ids),
			SAEs:       saes,
		}
	}
	for i := range res.Graph.Edges {
		e := &res.Graph.Edges[i]
		resp.Edges[i] = edgeResponse{Source: e.Source, Target: e.Target, CommonSAEs: e.Points()}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

type nearestFeature struct {
	Index       int      `json:"index"`
	Similarity  float64  `json:"similarity"`
	Explanation any      `json:"explanation"`
	Concepts    []string `json:"concepts"`
	Categories  []string `json:"categories"`
}

type nearestResponse struct {
	NearestSAEs []nearestFeature `json:"nearest_saes"`
}

func (s *Server) nearest(w http.ResponseWriter, r *http.Request) {
	q, err := parseFeatureQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	records, err := s.records(r, q.layerQuery)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if _, ok := catalog.Find(records, q.Index); !ok {
		s.writeError(w, r, fmt.Errorf("%w: feature %d (threshold: %v)", errNotFound, q.Index, q.Threshold))
		return
	}

	emb, err := s.layers.Load(r.Context(), q.Layer)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	points, err := emb.Points(catalog.Indices(records))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	neighbors, err := s.mapper.Nearest(r.Context(), points, model.PointID(q.Index), NearestK)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := nearestResponse{NearestSAEs: make([]nearestFeature, len(neighbors))}
	for i, n := range neighbors {
		pos, _ := catalog.Find(records, int(n.ID))
		rec := records[pos]
		resp.NearestSAEs[i] = nearestFeature{
			Index:       rec.Index,
			Similarity:  float64(n.Similarity),
			Explanation: rec.Explanation,
			Concepts:    rec.Concept,
			Categories:  rec.AllCategories,
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type saeDetailsResponse struct {
	SAE         catalog.Record `json:"sae"`
	Explanation any            `json:"explanation"`
}

func (s *Server) saeDetails(w http.ResponseWriter, r *http.Request) {
	q, err := parseFeatureQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	records, err := s.records(r, q.layerQuery)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	pos, ok := catalog.Find(records, q.Index)
	if !ok {
		s.writeError(w, r, fmt.Errorf("%w: feature %d in layer %d", errNotFound, q.Index, q.Layer))
		return
	}
	s.writeJSON(w, http.StatusOK, saeDetailsResponse{SAE: records[pos], Explanation: records[pos].Explanation})
}

type conceptsResponse struct {
	Layer         int      `json:"layer"`
	Concepts      []string `json:"concepts"`
	TotalConcepts int      `json:"total_concepts"`
}

func (s *Server) concepts(w http.ResponseWriter, r *http.Request) {
	q, err := parseLayerQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.catalog.View(r.Context(), q.ConceptDatasetID, q.Layer, q.Threshold)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	concepts := catalog.Concepts(view.Records)
	s.writeJSON(w, http.StatusOK, conceptsResponse{Layer: q.Layer, Concepts: concepts, TotalConcepts: len(concepts)})
}

type searchConceptResponse struct {
	Layer                int                     `json:"layer"`
	Concept              string                  `json:"concept"`
	MatchingSAEIndices   []int                   `json:"matching_sae_indices"`
	TotalMatchingSAEs    int                     `json:"total_matching_saes"`
	CategoryDistribution []catalog.CategoryCount `json:"category_distribution"`
}

func (s *Server) searchConcept(w http.ResponseWriter, r *http.Request) {
	q, err := parseLayerQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	concept := r.URL.Query().Get("concept")
	if concept == "" {
		s.writeError(w, r, &errParam{name: "concept", err: errRequired})
		return
	}
	view, err := s.catalog.View(r.Context(), q.ConceptDatasetID, q.Layer, q.Threshold)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	indices, dist := catalog.SearchConcept(view.Records, concept)
	s.writeJSON(w, http.StatusOK, searchConceptResponse{
		Layer:                q.Layer,
		Concept:              concept,
		MatchingSAEIndices:   indices,
		TotalMatchingSAEs:    len(indices),
		CategoryDistribution: dist,
	})
}

type categoryOverlapsResponse struct {
	SelectedCategory string                     `json:"selected_category"`
	Overlaps         map[string]catalog.Overlap `json:"overlaps"`
}

func (s *Server) categoryOverlaps(w http.ResponseWriter, r *http.Request) {
	q, err := parseLayerQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	category := r.URL.Query().Get("category")
	if category == "" {
		s.writeError(w, r, &errParam{name: "category", err: errRequired})
		return
	}
	view, err := s.catalog.View(r.Context(), q.ConceptDatasetID, q.Layer, q.Threshold)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, categoryOverlapsResponse{
		SelectedCategory: category,
		Overlaps:         catalog.CategoryOverlaps(view.Records, category),
	})
}

type pinnedOverlapsResponse struct {
	PinnedCategory    string                  `json:"pinned_category"`
	OrderedCategories  []catalog.PinnedOverlap `json:"ordered_categories"`
}

func (s *Server) pinnedCategoryOverlaps(w http.ResponseWriter, r *http.Request) {
	q, err := parseLayerQuery(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	pinned := r.URL.Query().Get("pinned_category")
	if pinned == "" {
		s.writeError(w, r, &errParam{name: "pinned_category", err: errRequired})
		return
	}
	view, err := s.catalog.View(r.Context(), q.ConceptDatasetID, q.Layer, q.Threshold)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, pinnedOverlapsResponse{
		PinnedCategory:    pinned,
		OrderedCategories: catalog.PinnedOverlaps(view.Records, pinned),
	})
}
