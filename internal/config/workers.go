package config

import "runtime"

// Worker resolution chain (highest priority first):
//   1. CLI flag (-workers)
//   2. Environment variable (NUMCALC_WORKERS)
//   3. Hardware estimation (this file)

// ApplyAdaptiveWorkers fills in Workers when it was left at zero.
func ApplyAdaptiveWorkers(cfg AppConfig) AppConfig {
	if cfg.Workers == 0 {
		cfg.Workers = EstimateWorkerCount()
	}
	return cfg
}

// EstimateWorkerCount returns the pool size for CPU-bound jobs. Five
// computations can run at once, so more slots than that are never used.
func EstimateWorkerCount() int {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU <= 1:
		return 1
	case numCPU >= 5:
		return 5
	default:
		return numCPU
	}
}
