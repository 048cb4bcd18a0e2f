// Package resource governs memory and worker concurrency of pair-counting runs.
//
// The Controller provides centralized management of two resource types:
//
//   - Memory: Track and limit spatial-index and histogram memory (non-blocking, fail-fast)
//   - Concurrency: Limit how many workers run at once across runs
//
// # Memory Management
//
// Memory tracking uses a weighted semaphore for hard limits and atomic counters
// for usage tracking. AcquireMemory is non-blocking and returns immediately
// with ErrMemoryLimitExceeded if the limit would be exceeded:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	res, err := rc.Reserve(gridBytes)
//	if err != nil {
//	    // ErrMemoryLimitExceeded - the run aborts
//	}
//	defer res.Release()
//
// # Worker Limits
//
//	rc := resource.NewController(resource.Config{
//	    MaxWorkers: 8,
//	})
//
//	if err := rc.AcquireWorker(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseWorker()
//
// # Nil Safety
//
// All methods handle nil Controller gracefully - they become no-ops.
// This allows optional resource limiting without nil checks everywhere.
package resource
