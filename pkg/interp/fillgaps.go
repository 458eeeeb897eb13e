package interp

import (
	"sort"
	"sync"

	"github.com/oncoplan/interp/pkg/geom"
)

// Slice groups the loops drawn on one key image position.
type Slice struct {
	Z     float64
	Loops []geom.Contour
}

// GapResult pairs one synthesized slice with its target position.
type GapResult struct {
	Z      float64
	Result *Result
}

// FillGaps synthesizes contours for every target position lying strictly
// between two consecutive key slices. Keys must each carry at least one
// loop; targets outside every gap are skipped. Requests are independent
// pure computations, so the gaps are filled concurrently. Results come
// back ordered by target position; the first error aborts the batch.
func FillGaps(keys []Slice, targets []float64, cfg Config) ([]GapResult, error) {
	sorted := make([]Slice, len(keys))
	copy(sorted, keys)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Z < sorted[j].Z })

	type job struct {
		z      float64
		lo, hi int
	}
	var jobs []job
	for _, z := range targets {
		if lo, hi, ok := bracket(sorted, z); ok {
			jobs = append(jobs, job{z: z, lo: lo, hi: hi})
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].z < jobs[j].z })

	results := make([]GapResult, len(jobs))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	for i, jb := range jobs {
		wg.Add(1)
		go func(i int, jb job) {
			defer wg.Done()
			res, err := Interpolate(Request{
				A:       sorted[jb.lo].Loops,
				B:       sorted[jb.hi].Loops,
				TargetZ: jb.z,
				Config:  cfg,
			})
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			results[i] = GapResult{Z: jb.z, Result: res}
		}(i, jb)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// bracket finds the consecutive key pair strictly surrounding z.
func bracket(sorted []Slice, z float64) (lo, hi int, ok bool) {
	for i := 0; i+1 < len(sorted); i++ {
		if z > sorted[i].Z+sliceZEps && z < sorted[i+1].Z-sliceZEps {
			return i, i + 1, true
		}
	}
	return 0, 0, false
}
