package marketplace

// RadiusBuckets are the distances, in km, the location dialog offers.
var RadiusBuckets = []int{10, 25, 50, 100, 250}

// NearestRadius maps km to the closest offered bucket. Ties go to the
// smaller bucket.
func NearestRadius(km int) int {
	best := RadiusBuckets[0]
	for _, b := range RadiusBuckets[1:] {
		if abs(b-km) < abs(best-km) {
			best = b
		}
	}
	return best
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
