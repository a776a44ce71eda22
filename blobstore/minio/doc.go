// Package minio provides a BlobStore implementation using the MinIO client.
//
// MinIO is a high-performance, S3-compatible object storage system. This package
// uses the official MinIO Go client library for compatibility with MinIO
// and other S3-compatible storage systems like Ceph, SeaweedFS, and Garage.
//
// # Basic Usage
//
//	store, err := minio.New(minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	    Bucket:    "sae",
//	    Prefix:    "gemma-2b/",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	layers := layerstore.New(store)
//
// An existing *minio.Client can be wrapped with NewStore.
package minio
