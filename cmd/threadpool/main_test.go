package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"threadpool/internal/logger"
	"threadpool/internal/metrics"
	"threadpool/internal/worker"
)

func TestBuildConfigDefaults(t *testing.T) {
	cfg, err := buildConfig(options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Pool.Workers <= 0 {
		t.Errorf("expected positive workers, got %d", cfg.Pool.Workers)
	}
}

func TestBuildConfigFlagOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.yaml")
	if err := os.WriteFile(path, []byte("pool:\n  workers: 2\nlog:\n  level: error\n"), 0644); err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}

	cfg, err := buildConfig(options{configFile: path, workers: 6, logLevel: "debug", respawn: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Pool.Workers != 6 {
		t.Errorf("expected workers 6, got %d", cfg.Pool.Workers)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Log.Level)
	}
	if !cfg.Pool.RespawnOnPanic {
		t.Error("expected respawn to be enabled")
	}
}

func TestBuildConfigInvalid(t *testing.T) {
	if _, err := buildConfig(options{workers: -1}); err == nil {
		t.Error("expected validation error for negative workers")
	}
	if _, err := buildConfig(options{configFile: "/nonexistent/pool.yaml"}); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestSubmitJobs(t *testing.T) {
	m := metrics.New()
	pool, err := worker.NewPoolWithConfig(worker.PoolConfig{
		NumWorkers: 2,
		Logger:     logger.Discard(),
		Metrics:    m,
	})
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}

	n := submitJobs(context.Background(), pool, options{jobs: 50, panicEvery: 10})
	if n != 50 {
		t.Errorf("expected 50 submitted, got %d", n)
	}

	err = pool.Close()
	if err == nil {
		t.Error("expected panic faults from close")
	}
	if m.Panicked() == 0 {
		t.Error("expected at least one panicked job")
	}
}

func TestSubmitJobsCancelled(t *testing.T) {
	pool, err := worker.NewPoolWithConfig(worker.PoolConfig{NumWorkers: 1, Logger: logger.Discard()})
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if n := submitJobs(ctx, pool, options{jobs: 10}); n != 0 {
		t.Errorf("expected 0 submitted after cancel, got %d", n)
	}
}

func TestReport(t *testing.T) {
	out := report(metrics.Snapshot{Submitted: 3, Completed: 3}, 3, time.Millisecond)
	for _, want := range []string{"Submitted:   3", "Completed:   3", "Drain time"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in report:\n%s", want, out)
		}
	}
}
