package server

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/hupe1980/ballmap"
	"github.com/hupe1980/ballmap/catalog"
	"github.com/hupe1980/ballmap/codec"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// errParam reports a malformed request parameter.
type errParam struct {
	name  string
	value string
	err   error
}

func (e *errParam) Error() string {
	return fmt.Sprintf("invalid parameter %s=%q: %v", e.name, e.value, e.err)
}

func (e *errParam) Unwrap() error {
	return e.err
}

type layerQuery struct {
	Layer            int     `validate:"gte=0"`
	Threshold        float64 `validate:"gte=0,lte=1"`
	ConceptDatasetID string  `validate:"required"`
}

type ballmapperQuery struct {
	layerQuery
	Category   string
	Categories []string
	Epsilon    *float64 `validate:"omitempty,gt=0"`
	MaxSize    int      `validate:"gte=1"`
}

type featureQuery struct {
	layerQuery
	Index int `validate:"gte=0"`
}

type loadDataRequest struct {
	DatasetID        string  `json:"dataset_id"`
	ConceptDatasetID string  `json:"concept_dataset_id" validate:"required"`
	Threshold        float64 `json:"threshold" validate:"gte=0,lte=1"`
}

func pathInt(r *http.Request, name string) (int, error) {
	v := chi.URLParam(r, name)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &errParam{name: name, value: v, err: err}
	}
	return n, nil
}

func queryFloat(q url.Values, name string, def float64) (float64, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &errParam{name: name, value: v, err: err}
	}
	return f, nil
}

func parseLayerQuery(r *http.Request) (layerQuery, error) {
	var lq layerQuery

	layer, err := pathInt(r, "layer")
	if err != nil {
		return lq, err
	}

	q := r.URL.Query()
	threshold, err := queryFloat(q, "threshold", catalog.DefaultThreshold)
	if err != nil {
		return lq, err
	}

	lq = layerQuery{
		Layer:            layer,
		Threshold:        threshold,
		ConceptDatasetID: q.Get("concept_dataset_id"),
	}
	if lq.ConceptDatasetID == "" {
		lq.ConceptDatasetID = catalog.ThingsPlus
	}
	return lq, validate.Struct(lq)
}

func parseFeatureQuery(r *http.Request) (featureQuery, error) {
	lq, err := parseLayerQuery(r)
	if err != nil {
		return featureQuery{}, err
	}
	index, err := pathInt(r, "index")
	if err != nil {
		return featureQuery{}, err
	}
	fq := featureQuery{layerQuery: lq, Index: index}
	return fq, validate.Struct(fq)
}

func parseBallmapperQuery(r *http.Request) (ballmapperQuery, error) {
	lq, err := parseLayerQuery(r)
	if err != nil {
		return ballmapperQuery{}, err
	}

	q := r.URL.Query()
	bq := ballmapperQuery{
		layerQuery: lq,
		Category:   q.Get("category"),
		MaxSize:    ballmap.DefaultMaxOverlap,
	}

	if v := q.Get("categories"); v != "" {
		if err := codec.Default.Unmarshal([]byte(v), &bq.Categories); err != nil {
			return bq, &errParam{name: "categories", value: v, err: err}
		}
	}

	if v := q.Get("epsilon"); v != "" {
		eps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return bq, &errParam{name: "epsilon", value: v, err: err}
		}
		bq.Epsilon = &eps
	}

	// Unparsable caps fall back to the default and caps below 1 are raised to 1.
	if v := q.Get("max_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			bq.MaxSize = max(n, 1)
		}
	}

	return bq, validate.Struct(bq)
}

// filter returns the category filter: the categories list if given, else the single category.
func (q ballmapperQuery) filter() []string {
	if len(q.Categories) > 0 {
		return q.Categories
	}
	if q.Category != "" {
		return []string{q.Category}
	}
	return nil
}
