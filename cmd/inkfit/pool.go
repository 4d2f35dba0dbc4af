package main

import "runtime"

// resolvePoolSize determines how many documents are optimized in parallel.
// Priority: explicit workers setting > GOMAXPROCS-based calculation.
// Each in-flight document may spawn an engine process plus render workers,
// so the automatic fan-out stays conservative.
func resolvePoolSize(workers int) int {
	// Explicit setting takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n := available / 2

	// Minimum 1, maximum 4
	if n < 1 {
		return 1
	}
	if n > 4 {
		return 4
	}
	return n
}

// pageWorkersFor splits the available cores between document-level fan-out
// and per-document page rendering so a batch run does not oversubscribe.
func pageWorkersFor(poolSize int) int {
	n := runtime.GOMAXPROCS(0) / poolSize
	if n < 1 {
		return 1
	}
	return n
}
