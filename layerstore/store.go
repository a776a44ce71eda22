package layerstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/ballmap/blobstore"
	"github.com/hupe1980/ballmap/internal/cache"
	"github.com/hupe1980/ballmap/model"
	"github.com/hupe1980/ballmap/resource"
)

// DefaultDir is the directory holding the layer files.
const DefaultDir = "SAE_directions"

// DefaultCacheBytes bounds the decoded-layer cache.
const DefaultCacheBytes = 512 << 20

// Options configures a Store.
type Options struct {
	// Dir is the blob prefix holding the layer files.
	Dir string

	// CacheBytes bounds the decoded-layer cache. Zero or less disables caching.
	CacheBytes int64

	// ResourceController charges cache memory and rate-limits reads. May be nil.
	ResourceController *resource.Controller
}

type compression int

const (
	compressionNone compression = iota
	compressionZstd
	compressionLZ4
)

type candidate struct {
	suffix string
	comp   compression
}

var candidates = []candidate{
	{".npy", compressionNone},
	{".npy.zst", compressionZstd},
	{".npy.lz4", compressionLZ4},
}

// Store loads layer embeddings from a blob store.
// It is safe for concurrent use.
type Store struct {
	blobs blobstore.BlobStore
	opts  Options
	cache *cache.LRU[int, *Embeddings]
	group singleflight.Group
}

// New creates a Store over blobs.
func New(blobs blobstore.BlobStore, optFns ...func(o *Options)) *Store {
	opts := Options{
		Dir:        DefaultDir,
		CacheBytes: DefaultCacheBytes,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	s := &Store{blobs: blobs, opts: opts}
	if opts.CacheBytes > 0 {
		s.cache = cache.NewLRU[int, *Embeddings](opts.CacheBytes, opts.ResourceController)
	}
	return s
}

// Load returns the embeddings of layer.
// Concurrent loads of the same layer share one read.
func (s *Store) Load(ctx context.Context, layer int) (*Embeddings, error) {
	if layer < 0 {
		return nil, &ErrInvalidLayer{Layer: layer}
	}
	if s.cache != nil {
		if emb, ok := s.cache.Get(layer); ok {
			return emb, nil
		}
	}

	v, err, _ := s.group.Do(fmt.Sprint(layer), func() (any, error) {
		emb, err := s.load(ctx, layer)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.cache.Set(layer, emb, emb.SizeInBytes())
		}
		return emb, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Embeddings), nil
}

// Layers returns the layer numbers present in the store in ascending order.
func (s *Store) Layers(ctx context.Context) ([]int, error) {
	names, err := s.blobs.List(ctx, s.opts.Dir+"/layer_")
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{})
	var layers []int
	for _, name := range names {
		var layer int
		var rest string
		if n, _ := fmt.Sscanf(path.Base(name), "layer_%d.%s", &layer, &rest); n != 2 {
			continue
		}
		if _, ok := seen[layer]; ok {
			continue
		}
		seen[layer] = struct{}{}
		layers = append(layers, layer)
	}
	slices.Sort(layers)
	return layers, nil
}

// CacheStats returns the decoded-layer cache hit and miss counts.
func (s *Store) CacheStats() (hits, misses int64) {
	if s.cache == nil {
		return 0, 0
	}
	return s.cache.Stats()
}

func (s *Store) load(ctx context.Context, layer int) (*Embeddings, error) {
	base := fmt.Sprintf("%s/layer_%d", s.opts.Dir, layer)

	var lastErr error
	for _, c := range candidates {
		name := base + c.suffix
		b, err := s.blobs.Open(ctx, name)
		if err != nil {
			if errors.Is(err, blobstore.ErrNotFound) {
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("layerstore: open %s: %w", name, err)
		}

		data, err := s.read(ctx, b, c.comp)
		_ = b.Close()
		if err != nil {
			return nil, fmt.Errorf("layerstore: read %s: %w", name, err)
		}

		rows, dim, values, err := decodeNPY(name, data)
		if err != nil {
			return nil, err
		}
		return &Embeddings{Layer: layer, Rows: rows, Dim: dim, data: values}, nil
	}

	return nil, fmt.Errorf("%w: layer %d: %w", ErrNotFound, layer, lastErr)
}

func (s *Store) read(ctx context.Context, b blobstore.Blob, comp compression) ([]byte, error) {
	var src io.Reader
	if m, ok := b.(blobstore.Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return nil, err
		}
		if comp == compressionNone {
			if err := s.opts.ResourceController.AcquireIO(ctx, len(data)); err != nil {
				return nil, err
			}
			out := make([]byte, len(data))
			copy(out, data)
			return out, nil
		}
		src = bytes.NewReader(data)
	} else {
		if b.Size() == 0 {
			src = bytes.NewReader(nil)
		} else {
			rc, err := b.ReadRange(ctx, 0, b.Size())
			if err != nil {
				return nil, err
			}
			defer func() { _ = rc.Close() }()
			src = rc
		}
	}

	src = resource.NewRateLimitedReader(ctx, src, s.opts.ResourceController)

	switch comp {
	case compressionZstd:
		dec, err := zstd.NewReader(src)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return io.ReadAll(dec)
	case compressionLZ4:
		return io.ReadAll(lz4.NewReader(src))
	default:
		return io.ReadAll(src)
	}
}

// Embeddings is a decoded layer: Rows feature directions of Dim components each.
// It is immutable and safe for concurrent use.
type Embeddings struct {
	Layer int
	Rows  int
	Dim   int
	data  []float32
}

// Row returns the direction of feature i. The slice must not be modified.
func (e *Embeddings) Row(i int) []float32 {
	return e.data[i*e.Dim : (i+1)*e.Dim : (i+1)*e.Dim]
}

// Points returns one Point per feature index, in the given order, with the
// feature index as PointID. Vectors alias the layer data.
func (e *Embeddings) Points(indices []int) ([]model.Point, error) {
	points := make([]model.Point, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= e.Rows {
			return nil, fmt.Errorf("%w: feature %d of layer %d (%d rows)", ErrRowOutOfRange, idx, e.Layer, e.Rows)
		}
		points[i] = model.Point{ID: model.PointID(idx), Vector: e.Row(idx)}
	}
	return points, nil
}

// SizeInBytes returns the size of the decoded directions in bytes.
func (e *Embeddings) SizeInBytes() int64 {
	return int64(len(e.data)) * 4
}
