// Package resource implements the Controller for global limits.
//
// The Controller manages three resource types:
//
//   - Memory: track and limit the bytes held by distance matrices and cached layers
//   - Concurrency: limit the number of graph builds running at once
//   - IO: rate-limit reads from the embedding store
//
// # Memory Management
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	if err := rc.AcquireMemory(ctx, distmat.BytesFor(n)); err != nil {
//	    return err
//	}
//	defer rc.ReleaseMemory(distmat.BytesFor(n))
//
// # Build Limits
//
//	if err := rc.AcquireBuild(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseBuild()
//
// # IO Rate Limiting
//
//	reader := resource.NewRateLimitedReader(ctx, blob, rc)
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
