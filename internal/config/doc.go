// Package config loads worker pool settings from YAML or JSON files.
//
//	cfg, err := config.LoadFile("pool.yaml")
//	if err != nil { ... }
//	if err := cfg.Validate(); err != nil { ... }
//	pool, err := worker.NewPoolWithConfig(cfg.ToPoolConfig(log, m, bus))
//
// A file must set pool.workers to a positive value; there is no implicit
// default for it. Default returns the settings used when no file is given.
package config
