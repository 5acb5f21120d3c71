// Package tomtom scores all ungapped offsets between a query and target
// motif, subtracts a per-column background median, and reports the best
// alignment with a p-value.
package tomtom

import (
	"sync"

	"github.com/grailbio/motifscan/pwm"
)

// PValueMode selects how Compare converts an alignment score to a
// p-value.
type PValueMode int

const (
	// PValuePlaceholder reproduces the reference implementation's
	// exp(-|score|/100) placeholder, which has no probabilistic
	// meaning. It is the default so existing callers see unchanged
	// behavior.
	PValuePlaceholder PValueMode = iota
	// PValueConvolution computes the rigorous p-value: a
	// scoredist-style discretized convolution of the per-column
	// similarity scores, with the target's own wt columns as the
	// background ensemble for each aligned query column.
	PValueConvolution
)

// Opts configures Compare. The zero value is not valid; use
// DefaultOpts and override individual fields.
type Opts struct {
	// NScoreBins is the bin count PValueConvolution discretizes the
	// column-similarity range into.
	NScoreBins int
	// NMedianBins is the BinnedMedian bucket count used to center each
	// query column.
	NMedianBins int
	// ReverseComplement, if true, also aligns against the
	// reverse-complement of every target.
	ReverseComplement bool
	// PValueMode selects the p-value calculation.
	PValueMode PValueMode
	// Parallelism bounds how many (query,target) pairs are compared
	// concurrently; 0 means sequential.
	Parallelism int
}

// DefaultOpts returns TOMTOM's conventional defaults: both strands
// compared, the placeholder p-value mode.
func DefaultOpts() Opts {
	return Opts{
		NScoreBins:        100,
		NMedianBins:       1000,
		ReverseComplement: true,
		PValueMode:        PValuePlaceholder,
	}
}

// Result bundles the Q x T matrices Compare produces, one cell per
// (query, target) pair.
type Result struct {
	PValues  [][]float64
	Scores   [][]float64
	Offsets  [][]int
	Overlaps [][]int
	// Strands is 0 for a forward-orientation best alignment, 1 if the
	// reverse-complement orientation scored strictly higher.
	Strands [][]int
}

func newResult(q, t int) Result {
	r := Result{
		PValues:  make([][]float64, q),
		Scores:   make([][]float64, q),
		Offsets:  make([][]int, q),
		Overlaps: make([][]int, q),
		Strands:  make([][]int, q),
	}
	for i := 0; i < q; i++ {
		r.PValues[i] = make([]float64, t)
		r.Scores[i] = make([]float64, t)
		r.Offsets[i] = make([]int, t)
		r.Overlaps[i] = make([]int, t)
		r.Strands[i] = make([]int, t)
	}
	return r
}

// Compare implements TOMTOM: for every (query, target) pair it scores
// all ungapped offsets, keeps the best, and converts that score to a
// p-value per opts.PValueMode.
//
// An empty queries or targets list returns a zero-sized Result and a
// nil error.
func Compare(queries, targets []pwm.Motif, opts Opts) (Result, error) {
	if len(queries) == 0 || len(targets) == 0 {
		return Result{}, nil
	}
	res := newResult(len(queries), len(targets))

	compare := func(qi, ti int) {
		best := bestAlignment(queries[qi].PWM, targets[ti].PWM, opts)
		res.Scores[qi][ti] = best.score
		res.Offsets[qi][ti] = best.offset
		res.Overlaps[qi][ti] = best.overlap
		res.Strands[qi][ti] = best.strand
		res.PValues[qi][ti] = pValue(best, queries[qi].PWM, targets[ti].PWM, opts)
	}

	if opts.Parallelism <= 1 {
		for qi := range queries {
			for ti := range targets {
				compare(qi, ti)
			}
		}
		return res, nil
	}

	sem := make(chan struct{}, opts.Parallelism)
	var wg sync.WaitGroup
	for qi := range queries {
		for ti := range targets {
			qi, ti := qi, ti
			wg.Add(1)
			sem <- struct{}{}
			go func() {
				defer wg.Done()
				defer func() { <-sem }()
				compare(qi, ti)
			}()
		}
	}
	wg.Wait()
	return res, nil
}
