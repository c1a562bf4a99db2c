package apiguard

import "math"

// distanceClipBound guards against infinity artifacts from the search
// backend leaking into the confidence value.
const distanceClipBound = 1e6

// Confidence derives a bounded numeric diagnostic from retrieval distances:
// the arithmetic mean of the distances, each clipped to ±1e6 first. If the
// mean is non-finite (empty input, all non-finite distances) the result is 0.
//
// Raw distances are smaller-is-more-similar, so this value decreases as
// relevance increases. It is not a probability and must not be read as
// higher-is-better; downstream consumers already compensate for the
// inverted scale.
func Confidence(distances []float64) float64 {
	if len(distances) == 0 {
		return 0
	}

	var sum float64
	for _, d := range distances {
		sum += clipDistance(d)
	}
	mean := sum / float64(len(distances))

	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return 0
	}
	return mean
}

// clipDistance bounds a distance to ±distanceClipBound.
// NaN is passed through; it surfaces as a non-finite mean, which Confidence
// reports as 0.
func clipDistance(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	if v < -distanceClipBound {
		return -distanceClipBound
	}
	if v > distanceClipBound {
		return distanceClipBound
	}
	return v
}
