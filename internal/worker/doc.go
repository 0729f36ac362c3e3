// Package worker provides a fixed-size goroutine pool for fire-and-forget jobs.
//
// A Pool starts a fixed number of worker goroutines that consume jobs from a
// shared, unbounded FIFO queue. Each job is delivered to exactly one worker and
// runs outside the queue lock. Close stops accepting jobs, lets the workers
// drain what is already queued, and joins them in id order.
//
// # Basic Usage
//
//	pool := worker.NewPool(4) // 4 workers, panics if size <= 0
//	defer pool.Close()
//
//	for i := 0; i < 100; i++ {
//	    pool.Execute(func() {
//	        // do work
//	    })
//	}
//
// # Configuration
//
// Use NewPoolWithConfig to attach a logger, metrics or an event bus, or to
// replace workers stopped by a panicking job:
//
//	pool, err := worker.NewPoolWithConfig(worker.PoolConfig{
//	    NumWorkers:     8,
//	    RespawnOnPanic: true,
//	    Events:         bus,
//	})
//
// # Shutdown and Faults
//
// Close blocks until every queued job has run; there is no timeout.
// Submit after Close returns ErrPoolClosed.
//
// A job that panics stops only the worker running it. Unless RespawnOnPanic is
// set the pool keeps running with one worker fewer. Close returns every such
// fault as a *PanicError joined with errors.Join.
//
// Jobs have no result channel. A single-worker pool runs jobs in submission
// order; with more workers the execution order is unspecified.
package worker
