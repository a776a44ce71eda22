// Package s3 provides an S3 implementation of the blobstore.BlobStore interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("sae-data/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	layers := layerstore.New(store)
//
// # Features
//
//   - Range reads for efficient partial fetches
//   - Multipart uploads for large blobs
//   - Automatic pagination for listing
//   - Configurable prefix for sharing a bucket
package s3
