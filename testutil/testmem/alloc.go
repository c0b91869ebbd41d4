package testmem

import (
	"runtime"
)

// Allocated returns the number of heap bytes allocated while fn runs.
// Allocations by other goroutines running at the same time are counted too,
// so callers should only assert generous upper bounds.
func Allocated(fn func()) uint64 {
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	fn()
	runtime.ReadMemStats(&after)
	return after.TotalAlloc - before.TotalAlloc
}
