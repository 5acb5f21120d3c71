package scoredist

// DefaultMedianBins is the default fixed-bin-histogram resolution used
// by BinnedMedian.
const DefaultMedianBins = 1000

// bucket accumulates the count and value-weighted sum of samples that
// fall into one histogram bin.
type bucket struct {
	count float64
	sum   float64
}

// BinnedMedian approximates the weighted median of values (each paired
// with a count in counts) over the known range [vmin, vmax], using an
// nBins-bucket histogram. It is an O(N)-time, constant-memory estimator,
// intentionally approximate: TOMTOM calls it once per query column per
// target pair and an exact O(N log N) median would dominate that inner
// loop.
//
// nBins <= 0 selects DefaultMedianBins.
func BinnedMedian(values, counts []float64, vmin, vmax float64, nBins int) float64 {
	if vmax == vmin {
		return vmin
	}
	if nBins <= 0 {
		nBins = DefaultMedianBins
	}

	buckets := make([]bucket, nBins)
	width := vmax - vmin
	var total float64
	for i, v := range values {
		c := counts[i]
		idx := int((v - vmin) / width * float64(nBins-1))
		if idx < 0 {
			idx = 0
		} else if idx >= nBins {
			idx = nBins - 1
		}
		buckets[idx].count += c
		buckets[idx].sum += v * c
		total += c
	}

	half := total / 2
	var cum float64
	for _, b := range buckets {
		cum += b.count
		if cum >= half {
			if b.count == 0 {
				return vmin
			}
			return b.sum / b.count
		}
	}
	return vmax
}
