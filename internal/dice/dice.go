package dice

// Chance reports whether an event with probability p happens
func Chance(r Roller, p float64) bool {
	return r.Float() < p
}

// Between returns an integer in [low, high]. A collapsed or inverted range returns low.
func Between(r Roller, low, high int) int {
	if high <= low {
		return low
	}
	return low + r.Intn(high-low+1)
}

// Weighted picks an index proportionally to weights. Negative weights count as zero.
// When every weight is zero the pick is uniform. Returns -1 for an empty slice.
func Weighted(r Roller, weights []int) int {
	if len(weights) == 0 {
		return -1
	}

	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total == 0 {
		return r.Intn(len(weights))
	}

	pick := r.Intn(total)
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		if pick < w {
			return i
		}
		pick -= w
	}
	return len(weights) - 1
}

// Shuffle permutes n elements with a Fisher-Yates pass
func Shuffle(r Roller, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := r.Intn(i + 1)
		swap(i, j)
	}
}
