package tomtom

import (
	"math"

	"github.com/grailbio/motifscan/alphabet"
	"github.com/grailbio/motifscan/pwm"
	"github.com/grailbio/motifscan/scoredist"
)

// alignment is the internal record for the winning offset between one
// (query, target) pair, including the centered distance matrix of
// whichever orientation (forward or reverse-complement) won, since the
// convolution p-value mode needs it.
type alignment struct {
	offset, overlap, strand int
	score                   float64
	// centered is the median-centered distance matrix, shape wt x wq,
	// for the orientation this alignment came from.
	centered [][]float64
}

// distanceMatrix computes D[tp][qp] = -sqrt(sum_a (q[a][qp]-t[a][tp])^2)
// for the raw (not log) PWM columns.
func distanceMatrix(q, t pwm.PWM) [][]float64 {
	wq, wt := q.Width(), t.Width()
	d := make([][]float64, wt)
	for tp := 0; tp < wt; tp++ {
		row := make([]float64, wq)
		for qp := 0; qp < wq; qp++ {
			var sum float64
			for a := 0; a < alphabet.Size; a++ {
				diff := q.At(a, qp) - t.At(a, tp)
				sum += diff * diff
			}
			row[qp] = -math.Sqrt(sum)
		}
		d[tp] = row
	}
	return d
}

// centerColumns subtracts the BinnedMedian of each query column from
// every entry in that column.
func centerColumns(d [][]float64, nMedianBins int) [][]float64 {
	if len(d) == 0 {
		return d
	}
	wt := len(d)
	wq := len(d[0])
	centered := make([][]float64, wt)
	for tp := range centered {
		centered[tp] = make([]float64, wq)
	}

	values := make([]float64, wt)
	counts := make([]float64, wt)
	for i := range counts {
		counts[i] = 1
	}
	for qp := 0; qp < wq; qp++ {
		vmin, vmax := d[0][qp], d[0][qp]
		for tp := 0; tp < wt; tp++ {
			v := d[tp][qp]
			values[tp] = v
			if v < vmin {
				vmin = v
			}
			if v > vmax {
				vmax = v
			}
		}
		m := scoredist.BinnedMedian(values, counts, vmin, vmax, nMedianBins)
		for tp := 0; tp < wt; tp++ {
			centered[tp][qp] = d[tp][qp] - m
		}
	}
	return centered
}

// enumerateOffsets scores every ungapped offset in [-(wq-1), wt-1] and
// returns the best, with ties resolved by the smallest offset.
func enumerateOffsets(centered [][]float64, wq, wt int) (bestOffset, bestOverlap int, bestScore float64) {
	bestScore = math.Inf(-1)
	for offset := -(wq - 1); offset <= wt-1; offset++ {
		var score float64
		var overlap int
		for qp := 0; qp < wq; qp++ {
			tp := qp + offset
			if tp < 0 || tp >= wt {
				continue
			}
			score += centered[tp][qp]
			overlap++
		}
		if score > bestScore {
			bestScore, bestOffset, bestOverlap = score, offset, overlap
		}
	}
	return bestOffset, bestOverlap, bestScore
}

// bestAlignment computes the winning (offset, overlap, score) between
// query q and target t, trying the reverse-complement of t too when
// opts.ReverseComplement is set.
func bestAlignment(q, t pwm.PWM, opts Opts) alignment {
	centered := centerColumns(distanceMatrix(q, t), opts.NMedianBins)
	offset, overlap, score := enumerateOffsets(centered, q.Width(), t.Width())
	best := alignment{offset: offset, overlap: overlap, score: score, strand: 0, centered: centered}

	if opts.ReverseComplement {
		rcCentered := centerColumns(distanceMatrix(q, t.ReverseComplement()), opts.NMedianBins)
		rcOffset, rcOverlap, rcScore := enumerateOffsets(rcCentered, q.Width(), t.Width())
		if rcScore > score {
			best = alignment{offset: rcOffset, overlap: rcOverlap, score: rcScore, strand: 1, centered: rcCentered}
		}
	}
	return best
}
