package engine

// allocEpsilon bounds the residue below which an allocation pass terminates.
const allocEpsilon = 1e-9

// AllocateCapped distributes total across buckets proportionally to weights
// while never exceeding a bucket's capacity. Overflow from a capped bucket is
// redistributed across the remaining active buckets until the total is placed
// or every bucket is saturated; whatever cannot be placed is returned as the
// unallocated residue. The sum of allocations plus the residue always equals
// the requested total. A zero weight sum falls back to equal weights so that
// capacity alone decides the split.
func AllocateCapped(total float64, weights, caps []float64) ([]float64, float64) {
	if total < 0 {
		total = 0
	}
	n := len(caps)
	capsLeft := make([]float64, n)
	wts := make([]float64, n)
	for i := 0; i < n; i++ {
		capsLeft[i] = maxFloat(0, caps[i])
		if i < len(weights) {
			wts[i] = maxFloat(0, weights[i])
		}
	}
	alloc := make([]float64, n)
	remaining := total

	active := make([]int, 0, n)
	for i, c := range capsLeft {
		if c > 0 {
			active = append(active, i)
		}
	}

	for remaining > allocEpsilon && len(active) > 0 {
		wsum := 0.0
		for _, i := range active {
			wsum += wts[i]
		}
		if wsum <= allocEpsilon {
			wsum = float64(len(active))
			for _, i := range active {
				wts[i] = 1.0
			}
		}

		passTotal := remaining
		exhausted := false
		for _, i := range active {
			share := passTotal * (wts[i] / wsum)
			if share <= capsLeft[i]+allocEpsilon {
				alloc[i] += share
				capsLeft[i] -= share
				remaining -= share
			} else {
				alloc[i] += capsLeft[i]
				remaining -= capsLeft[i]
				capsLeft[i] = 0
				exhausted = true
			}
		}

		if !exhausted {
			// Every share fit within capacity: the pass placed the full
			// remaining amount, modulo float dust.
			remaining = 0
			break
		}
		next := active[:0]
		for _, i := range active {
			if capsLeft[i] > allocEpsilon {
				next = append(next, i)
			}
		}
		active = next
	}

	return alloc, maxFloat(0, remaining)
}
