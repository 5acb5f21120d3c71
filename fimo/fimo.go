// Package fimo scans one-hot sequences on both strands against one or
// more motifs and emits hits above a p-value-derived score threshold.
package fimo

import (
	"math"
	"sync"

	"github.com/grailbio/motifscan/alphabet"
	"github.com/grailbio/motifscan/pwm"
	"github.com/grailbio/motifscan/scoredist"
)

// Strand identifies which strand a Hit was found on.
type Strand int

const (
	Forward Strand = iota
	Reverse
)

func (s Strand) String() string {
	if s == Reverse {
		return "-"
	}
	return "+"
}

// Sequence is a named nucleotide string to scan.
type Sequence struct {
	Name string
	Seq  string
}

// Hit is a single motif instance found by Scan. Start and End are
// 0-based/exclusive; for Strand == Reverse they index the
// reverse-complement sequence, not the original forward one.
type Hit struct {
	SequenceIdx int
	Start, End  int
	Strand      Strand
	Score       float64
	PValue      float64
}

// MotifResult bundles all hits found for one motif across every
// sequence passed to Scan.
type MotifResult struct {
	MotifName string
	Hits      []Hit
}

// Opts configures Scan. The zero value is not valid; use DefaultOpts
// and override individual fields.
type Opts struct {
	// Threshold is the maximum p-value a hit may have to be reported.
	Threshold float64
	// BinSize is the scoredist.Map discretization granularity.
	BinSize float64
	// Eps is the LogPWM pseudocount.
	Eps float64
	// ReverseComplement, if true, also scans the reverse-complement
	// strand of every sequence.
	ReverseComplement bool
	// Parallelism bounds how many motifs are scanned concurrently; 0
	// means sequential (the safe, deterministic default for small
	// motif sets; see Scan's doc comment for the ordering guarantee
	// that holds regardless of this setting).
	Parallelism int
}

// DefaultOpts returns FIMO's conventional defaults: a 1e-4 p-value
// threshold, both strands scanned.
func DefaultOpts() Opts {
	return Opts{
		Threshold:         1e-4,
		BinSize:           scoredist.DefaultBinSize,
		Eps:               pwm.DefaultEps,
		ReverseComplement: true,
	}
}

// Scan implements FIMO: it assigns p-values to every candidate motif
// instance in sequences using the scoredist tail distribution of each
// motif's LogPWM, and returns the hits that pass opts.Threshold.
//
// Hits within a (motif, sequence, strand) triple are ordered ascending
// by Start; strand order is forward then reverse; MotifResults are
// returned in the order motifs were given. This ordering holds
// regardless of opts.Parallelism, since the outer loop scans every
// sequence's hits into a per-motif buffer before any reordering could
// occur, and the per-motif buffers are assembled back in input order
// once all workers finish.
//
// An empty motifs or sequences list returns an empty, nil-error result.
func Scan(motifs []pwm.Motif, sequences []Sequence, opts Opts) ([]MotifResult, error) {
	if len(motifs) == 0 || len(sequences) == 0 {
		return nil, nil
	}

	encoded := make([]alphabet.OneHot, len(sequences))
	for i, s := range sequences {
		h, err := alphabet.OneHotEncode(s.Seq, alphabet.DefaultIgnore)
		if err != nil {
			return nil, err
		}
		encoded[i] = h
	}

	results := make([]MotifResult, len(motifs))
	if opts.Parallelism <= 1 {
		for i, m := range motifs {
			results[i] = scanMotif(m, encoded, opts)
		}
		return results, nil
	}

	sem := make(chan struct{}, opts.Parallelism)
	var wg sync.WaitGroup
	for i, m := range motifs {
		i, m := i, m
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = scanMotif(m, encoded, opts)
		}()
	}
	wg.Wait()
	return results, nil
}

func scanMotif(m pwm.Motif, encoded []alphabet.OneHot, opts Opts) MotifResult {
	logPwm := m.PWM.ToLog(opts.Eps)
	dist := scoredist.Map(logPwm, opts.BinSize)
	scoreThreshold := dist.ScoreThreshold(opts.Threshold)

	var logPwmRC pwm.LogPWM
	if opts.ReverseComplement {
		logPwmRC = logPwm.ReverseComplement()
	}

	var hits []Hit
	w := m.Width()
	for seqIdx, h := range encoded {
		hits = append(hits, scanStrand(seqIdx, w, h, logPwm, dist, scoreThreshold, Forward)...)
		if opts.ReverseComplement {
			rc := alphabet.ReverseComplement(h)
			hits = append(hits, scanStrand(seqIdx, w, rc, logPwmRC, dist, scoreThreshold, Reverse)...)
		}
	}
	return MotifResult{MotifName: m.Name, Hits: hits}
}

// scanStrand scores every width-w window of one strand of one sequence
// against logPwm and keeps the ones whose score clears scoreThreshold.
func scanStrand(seqIdx, w int, h alphabet.OneHot, logPwm pwm.LogPWM, dist scoredist.DiscreteScoreDist, scoreThreshold float64, strand Strand) []Hit {
	l := h.Len()
	if l < w {
		return nil
	}
	var hits []Hit
	for p := 0; p <= l-w; p++ {
		score := 0.0
		for j := 0; j < w; j++ {
			if row := h.RowAt(p + j); row >= 0 {
				score += logPwm.At(row, j)
			}
		}
		if score > scoreThreshold {
			hits = append(hits, Hit{
				SequenceIdx: seqIdx,
				Start:       p,
				End:         p + w,
				Strand:      strand,
				Score:       score,
				PValue:      dist.PValueAt(score),
			})
		}
	}
	return hits
}

// maxScorePValueLowerBound returns 4^-w, the invariant lower bound on
// the p-value FIMO can assign to the maximum-scoring word of a width-w
// motif; this package's tests use it to check the invariant.
func maxScorePValueLowerBound(w int) float64 {
	return math.Pow(4, -float64(w))
}
