package tomtom

import (
	"math"

	"github.com/grailbio/motifscan/pwm"
	"github.com/grailbio/motifscan/scoredist"
)

// pValue converts the winning alignment's score into a p-value per
// opts.PValueMode.
func pValue(best alignment, q, t pwm.PWM, opts Opts) float64 {
	switch opts.PValueMode {
	case PValueConvolution:
		return convolutionPValue(best, opts.NScoreBins)
	default:
		return math.Max(1e-15, math.Exp(-math.Abs(best.score)/100))
	}
}

// convolutionPValue computes the rigorous p-value: it treats each
// aligned query column's background as the empirical distribution of
// that target's own wt column-similarity values, discretizes each into
// nScoreBins bins, convolves them into a joint score distribution the
// same way scoredist.Map convolves per-column PWM distributions, and
// looks up the tail probability at the observed alignment score.
func convolutionPValue(best alignment, nScoreBins int) float64 {
	if best.overlap == 0 {
		return 1
	}
	wt := len(best.centered)
	if wt == 0 {
		return 1
	}
	wq := len(best.centered[0])

	qpStart, qpEnd := 0, 0
	found := false
	for qp := 0; qp < wq; qp++ {
		tp := qp + best.offset
		if tp < 0 || tp >= wt {
			continue
		}
		if !found {
			qpStart = qp
			found = true
		}
		qpEnd = qp + 1
	}
	if !found {
		return 1
	}

	// Gather the background ensemble per participating query column
	// and the global bin range across all of them.
	type col struct{ values []float64 }
	cols := make([]col, 0, qpEnd-qpStart)
	globalMin, globalMax := math.Inf(1), math.Inf(-1)
	for qp := qpStart; qp < qpEnd; qp++ {
		vals := make([]float64, wt)
		for tp := 0; tp < wt; tp++ {
			v := best.centered[tp][qp]
			vals[tp] = v
			if v < globalMin {
				globalMin = v
			}
			if v > globalMax {
				globalMax = v
			}
		}
		cols = append(cols, col{values: vals})
	}
	if globalMax == globalMin {
		// Degenerate: every background column similarity is identical,
		// so the alignment carries no discriminating signal.
		return 1
	}
	if nScoreBins <= 1 {
		nScoreBins = DefaultOpts().NScoreBins
	}
	binSize := (globalMax - globalMin) / float64(nScoreBins-1)

	bin := func(v float64) int {
		idx := int(math.Floor((v - globalMin) / binSize))
		if idx < 0 {
			idx = 0
		} else if idx >= nScoreBins {
			idx = nScoreBins - 1
		}
		return idx
	}

	// Per-column empirical log2 probability mass per bin.
	logProb := func(c col) []float64 {
		counts := make([]float64, nScoreBins)
		for _, v := range c.values {
			counts[bin(v)]++
		}
		lp := make([]float64, nScoreBins)
		n := float64(len(c.values))
		for i, cnt := range counts {
			if cnt == 0 {
				lp[i] = math.Inf(-1)
			} else {
				lp[i] = math.Log2(cnt / n)
			}
		}
		return lp
	}

	old := logProb(cols[0])
	for _, c := range cols[1:] {
		lp := logProb(c)
		next := make([]float64, len(old)+nScoreBins-1)
		for i := range next {
			next[i] = math.Inf(-1)
		}
		for k, v := range old {
			if math.IsInf(v, -1) {
				continue
			}
			for b, pb := range lp {
				if math.IsInf(pb, -1) {
					continue
				}
				next[k+b] = scoredist.LogSumExp2(next[k+b], v+pb)
			}
		}
		old = next
	}

	for i := len(old) - 2; i >= 0; i-- {
		old[i] = scoredist.LogSumExp2(old[i], old[i+1])
	}

	overlap := float64(qpEnd - qpStart)
	kObs := int(math.Floor((best.score - overlap*globalMin) / binSize))
	if kObs < 0 {
		kObs = 0
	} else if kObs >= len(old) {
		kObs = len(old) - 1
	}
	return math.Exp2(old[kObs])
}
