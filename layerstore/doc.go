// Package layerstore loads per-layer SAE decoder directions from a blob store.
//
// Each layer is one two-dimensional NumPy array whose row i is the direction
// of feature i. Files are looked up under Dir as
//
//	layer_<n>.npy
//	layer_<n>.npy.zst
//	layer_<n>.npy.lz4
//
// in that order; the compressed variants use Zstandard (klauspost/compress)
// and LZ4 frames (pierrec/lz4). Decoded layers are kept in a byte-bounded LRU
// cache whose memory may be charged to a resource.Controller, and blob reads
// pass the controller's IO rate limiter.
//
// Usage:
//
//	store := layerstore.New(blobstore.NewLocalStore("data"))
//	emb, err := store.Load(ctx, 6)
//	if err != nil {
//		return err
//	}
//	points, err := emb.Points([]int{12, 40, 41})
package layerstore
