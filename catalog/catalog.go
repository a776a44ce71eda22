package catalog

import (
	"context"
	"errors"
	"fmt"
	"path"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/ballmap/blobstore"
	"github.com/hupe1980/ballmap/codec"
	"github.com/hupe1980/ballmap/internal/cache"
	"github.com/hupe1980/ballmap/resource"
)

// DefaultCacheBytes bounds the decoded-file cache, measured in encoded bytes.
const DefaultCacheBytes = 256 << 20

// Options configures a Catalog.
type Options struct {
	// Codec decodes the JSON files. Defaults to codec.Default.
	Codec codec.Codec

	// CacheBytes bounds the decoded-file cache. Zero or less disables caching.
	CacheBytes int64

	// ResourceController charges cache memory. May be nil.
	ResourceController *resource.Controller
}

// Catalog reads taxonomies, feature records and explanations from a blob store.
// It is safe for concurrent use.
type Catalog struct {
	blobs blobstore.BlobStore
	codec codec.Codec
	cache *cache.LRU[string, any]
}

// New creates a Catalog over blobs.
func New(blobs blobstore.BlobStore, optFns ...func(o *Options)) *Catalog {
	opts := Options{
		Codec:      codec.Default,
		CacheBytes: DefaultCacheBytes,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}

	c := &Catalog{blobs: blobs, codec: opts.Codec}
	if opts.CacheBytes > 0 {
		c.cache = cache.NewLRU[string, any](opts.CacheBytes, opts.ResourceController)
	}
	return c
}

// TaxonomyName returns the blob name of a concept taxonomy.
func TaxonomyName(dataset string) string {
	return dataset + ".json"
}

// RecordsDir returns the blob prefix holding the record files of a concept dataset.
func RecordsDir(dataset string) string {
	return fmt.Sprintf("filtered_layers_threshold_%.1f_%s", BaseThreshold, dataset)
}

// RecordsName returns the blob name of a layer's record file.
func RecordsName(dataset string, layer int) string {
	return fmt.Sprintf("%s/conceptSAE_layer_%d.json", RecordsDir(dataset), layer)
}

// ExplanationsName returns the blob name of a layer's explanation file.
func ExplanationsName(layer int) string {
	return fmt.Sprintf("explanations/explanations_layer_%d.json", layer)
}

// Taxonomy loads the taxonomy of a concept dataset.
func (c *Catalog) Taxonomy(ctx context.Context, dataset string) (Taxonomy, error) {
	if !ValidDataset(dataset) {
		return nil, &ErrUnknownDataset{ID: dataset}
	}
	return load[Taxonomy](ctx, c, TaxonomyName(dataset))
}

// Records loads the precomputed feature records of a layer.
// The returned slice is shared and must not be modified.
func (c *Catalog) Records(ctx context.Context, dataset string, layer int) ([]Record, error) {
	if !ValidDataset(dataset) {
		return nil, &ErrUnknownDataset{ID: dataset}
	}
	return load[[]Record](ctx, c, RecordsName(dataset, layer))
}

// Explanations loads the explanations of a layer, indexed by feature.
// A missing file yields nil without error.
func (c *Catalog) Explanations(ctx context.Context, layer int) ([]any, error) {
	out, err := load[[]any](ctx, c, ExplanationsName(layer))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return out, err
}

// Layers returns the layers that have a record file for dataset, ascending.
func (c *Catalog) Layers(ctx context.Context, dataset string) ([]int, error) {
	if !ValidDataset(dataset) {
		return nil, &ErrUnknownDataset{ID: dataset}
	}
	names, err := c.blobs.List(ctx, RecordsDir(dataset)+"/")
	if err != nil {
		return nil, err
	}
	var layers []int
	for _, name := range names {
		var layer int
		if _, err := fmt.Sscanf(path.Base(name), "conceptSAE_layer_%d.json", &layer); err == nil {
			layers = append(layers, layer)
		}
	}
	slices.Sort(layers)
	return layers, nil
}

// View is the threshold-filtered record set of one layer.
type View struct {
	Dataset   string
	Layer     int
	Threshold float64
	Records   []Record
	Taxonomy  Taxonomy
}

// View loads the records of a layer filtered at threshold.
func (c *Catalog) View(ctx context.Context, dataset string, layer int, threshold float64) (*View, error) {
	var (
		tax     Taxonomy
		records []Record
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		tax, err = c.Taxonomy(gctx, dataset)
		return err
	})
	g.Go(func() (err error) {
		records, err = c.Records(gctx, dataset, layer)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &View{
		Dataset:   dataset,
		Layer:     layer,
		Threshold: threshold,
		Records:   FilterByThreshold(records, threshold, tax.ConceptToCategory()),
		Taxonomy:  tax,
	}, nil
}

// Summary describes the concept coverage of every layer of a dataset.
type Summary struct {
	Layers           []LayerSummary `json:"layers"`
	TotalConcepts    int            `json:"total_concepts"`
	Threshold        float64        `json:"threshold"`
	ConceptDatasetID string         `json:"concept_dataset_id"`
}

// Summarize computes per-layer concept coverage at threshold.
func (c *Catalog) Summarize(ctx context.Context, dataset string, threshold float64) (*Summary, error) {
	tax, err := c.Taxonomy(ctx, dataset)
	if err != nil {
		return nil, err
	}
	layers, err := c.Layers(ctx, dataset)
	if err != nil {
		return nil, err
	}

	total := tax.Members()
	c2c := tax.ConceptToCategory()
	summaries := make([]LayerSummary, len(layers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, layer := range layers {
		g.Go(func() error {
			records, err := c.Records(gctx, dataset, layer)
			if err != nil {
				return err
			}
			summaries[i] = Summarize(layer, FilterByThreshold(records, threshold, c2c), total)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(summaries, func(a, b LayerSummary) int { return a.Layer - b.Layer })
	return &Summary{
		Layers:           summaries,
		TotalConcepts:    total,
		Threshold:        threshold,
		ConceptDatasetID: dataset,
	}, nil
}

// CacheStats returns the decoded-file cache hit and miss counts.
func (c *Catalog) CacheStats() (hits, misses int64) {
	if c.cache == nil {
		return 0, 0
	}
	return c.cache.Stats()
}

func load[T any](ctx context.Context, c *Catalog, name string) (T, error) {
	var zero T
	if c.cache != nil {
		if v, ok := c.cache.Get(name); ok {
			return v.(T), nil
		}
	}

	data, err := blobstore.ReadAll(ctx, c.blobs, name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return zero, fmt.Errorf("%w: %s: %w", ErrNotFound, name, err)
		}
		return zero, fmt.Errorf("catalog: read %s: %w", name, err)
	}

	var v T
	if err := c.codec.Unmarshal(data, &v); err != nil {
		return zero, fmt.Errorf("catalog: decode %s: %w", name, err)
	}

	if c.cache != nil {
		c.cache.Set(name, v, int64(len(data)))
	}
	return v, nil
}
