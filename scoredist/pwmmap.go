package scoredist

import (
	"math"

	"github.com/grailbio/motifscan/alphabet"
	"github.com/grailbio/motifscan/pwm"
)

// DefaultBinSize is the default discretization granularity. Smaller
// values give a higher-fidelity tail at the cost of a larger
// DiscreteScoreDist.
const DefaultBinSize = 0.1

// backgroundLog2 is log2(0.25), the per-symbol log-background mass the
// forward convolution mixes in at every column.
var backgroundLog2 = math.Log2(0.25)

// DiscreteScoreDist is the discretized tail probability table a LogPWM
// maps to: logPdf[k] is log2(Pr(S >= (k+Smallest)*binSize)) under a
// uniform i.i.d. background over length-Width words.
type DiscreteScoreDist struct {
	Smallest int
	BinSize  float64
	LogPdf   []float64
}

// Size is the number of attainable discretized scores.
func (d DiscreteScoreDist) Size() int { return len(d.LogPdf) }

// Map discretizes lp and computes its exact score survival function
// under the uniform background, via forward convolution followed by an
// in-place suffix log-sum-exp.
//
// binSize <= 0 is a programming error: it is never data-driven, so it
// panics rather than returning an error.
func Map(lp pwm.LogPWM, binSize float64) DiscreteScoreDist {
	if binSize <= 0 {
		panic("scoredist.Map: binSize must be > 0")
	}
	w := lp.Width()

	// Step 1: discretize into integer cells.
	intPwm := make([][]int, alphabet.Size)
	for a := 0; a < alphabet.Size; a++ {
		intPwm[a] = make([]int, w)
		for j := 0; j < w; j++ {
			intPwm[a][j] = round(lp.At(a, j) / binSize)
		}
	}

	// Step 2: range bounds via running cumulative column min/max.
	smallest, largest := 0, 0
	minCsum, maxCsum := 0, 0
	for j := 0; j < w; j++ {
		colMin, colMax := intPwm[0][j], intPwm[0][j]
		for a := 1; a < alphabet.Size; a++ {
			if intPwm[a][j] < colMin {
				colMin = intPwm[a][j]
			}
			if intPwm[a][j] > colMax {
				colMax = intPwm[a][j]
			}
		}
		minCsum += colMin
		maxCsum += colMax
		if minCsum < smallest {
			smallest = minCsum
		}
		if maxCsum > largest {
			largest = maxCsum
		}
	}
	largest += w
	size := largest - smallest + 1

	// Step 3: forward convolution of the per-column score distributions.
	old := make([]float64, size)
	for i := range old {
		old[i] = math.Inf(-1)
	}
	for a := 0; a < alphabet.Size; a++ {
		idx := intPwm[a][0] - smallest
		old[idx] = LogSumExp2(old[idx], backgroundLog2)
	}
	for j := 1; j < w; j++ {
		next := make([]float64, size)
		for i := range next {
			next[i] = math.Inf(-1)
		}
		for k, v := range old {
			if math.IsInf(v, -1) {
				continue
			}
			for a := 0; a < alphabet.Size; a++ {
				idx := k + intPwm[a][j]
				next[idx] = LogSumExp2(next[idx], backgroundLog2+v)
			}
		}
		old = next
	}

	// Step 4: in-place suffix log-sum-exp turns the log-PDF into a log
	// survival function: logPdf[i] = log2(sum_{k>=i} pdf[k]).
	for i := size - 2; i >= 0; i-- {
		old[i] = LogSumExp2(old[i], old[i+1])
	}

	return DiscreteScoreDist{Smallest: smallest, BinSize: binSize, LogPdf: old}
}

// round implements round-half-away-from-zero.
func round(x float64) int {
	if x >= 0 {
		return int(x + 0.5)
	}
	return int(x - 0.5)
}

// ScoreThreshold converts a maximum allowed p-value into the raw score
// threshold a scanner should compare against, by walking LogPdf
// ascending for the first bin whose tail probability drops below
// pValue. It returns +Inf if no bin qualifies, meaning no hit can ever
// pass.
func (d DiscreteScoreDist) ScoreThreshold(pValue float64) float64 {
	logThreshold := math.Log2(pValue)
	for k, lp := range d.LogPdf {
		if lp < logThreshold {
			return float64(k+d.Smallest) * d.BinSize
		}
	}
	return math.Inf(1)
}

// PValueAt returns the tail p-value (2^logPdf) for a raw score,
// clamping the bin index into [0, Size()-1]: a score outside the
// discretized range is reported at the nearest attainable bin rather
// than extrapolated, which is conservative at the tails.
func (d DiscreteScoreDist) PValueAt(score float64) float64 {
	k := int(math.Floor(score/d.BinSize)) - d.Smallest
	if k < 0 {
		k = 0
	} else if k >= d.Size() {
		k = d.Size() - 1
	}
	return math.Exp2(d.LogPdf[k])
}
