// Package pwm implements the Position Weight Matrix and LogPWM types
// that the scoring engines (scoredist, fimo, tomtom) consume, and the
// Motif value built from a PWM plus MEME-derived metadata.
package pwm

import (
	"math"

	"github.com/grailbio/motifscan/alphabet"
	"github.com/grailbio/motifscan/motiferr"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// background is the uniform background probability per symbol (b = 0.25
// for the 4-letter DNA alphabet).
const background = 1.0 / float64(alphabet.Size)

// columnSumTolerance bounds how far a PWM column may drift from summing
// to 1 before construction rejects it; real motif files carry rounding
// error in their probabilities, so an exact-1 check would reject valid
// input.
const columnSumTolerance = 1e-3

// PWM is an immutable alphabet.Size x Width matrix of probabilities,
// columns summing to (approximately) 1.
type PWM struct {
	m *mat.Dense
}

// New validates and constructs a PWM from a row-major alphabet.Size x w
// matrix, rows indexed by alphabet position (A, C, G, T).
func New(rows [][]float64) (PWM, error) {
	if len(rows) != alphabet.Size {
		return PWM{}, motiferr.Invalidf("pwm.New",
			"expected %d rows, got %d", alphabet.Size, len(rows))
	}
	w := len(rows[0])
	if w == 0 {
		return PWM{}, motiferr.Invalidf("pwm.New", "motif width must be >= 1")
	}
	for _, r := range rows {
		if len(r) != w {
			return PWM{}, motiferr.Invalidf("pwm.New",
				"ragged PWM: row width %d != %d", len(r), w)
		}
	}
	m := mat.NewDense(alphabet.Size, w, nil)
	col := make([]float64, alphabet.Size)
	for j := 0; j < w; j++ {
		for i := 0; i < alphabet.Size; i++ {
			col[i] = rows[i][j]
			m.Set(i, j, rows[i][j])
		}
		if sum := floats.Sum(col); math.Abs(sum-1) > columnSumTolerance {
			return PWM{}, motiferr.Invalidf("pwm.New",
				"column %d sums to %v, want ~1", j, sum)
		}
	}
	return PWM{m: m}, nil
}

// Width returns w, the motif width.
func (p PWM) Width() int { return p.m.RawMatrix().Cols }

// At returns P[row][col].
func (p PWM) At(row, col int) float64 { return p.m.At(row, col) }

// Dense exposes the backing matrix for read-only numeric access.
func (p PWM) Dense() *mat.Dense { return p.m }

// LogPWM is the per-cell transform log2((p+eps)/b), shape alphabet.Size x
// Width, used by FIMO and TOMTOM instead of the raw probabilities.
type LogPWM struct {
	m *mat.Dense
}

// DefaultEps is the additive pseudocount preventing -Inf in ToLog when a
// column has a zero entry.
const DefaultEps = 1e-4

// ToLog builds the LogPWM for p with pseudocount eps (0 selects
// DefaultEps).
func (p PWM) ToLog(eps float64) LogPWM {
	if eps == 0 {
		eps = DefaultEps
	}
	w := p.Width()
	m := mat.NewDense(alphabet.Size, w, nil)
	for i := 0; i < alphabet.Size; i++ {
		for j := 0; j < w; j++ {
			m.Set(i, j, math.Log2((p.At(i, j)+eps)/background))
		}
	}
	return LogPWM{m: m}
}

// Width returns w.
func (lp LogPWM) Width() int { return lp.m.RawMatrix().Cols }

// At returns LP[row][col].
func (lp LogPWM) At(row, col int) float64 { return lp.m.At(row, col) }

// Dense exposes the backing matrix for read-only numeric access.
func (lp LogPWM) Dense() *mat.Dense { return lp.m }

// ReverseComplement returns the column-reversed, row-complemented
// LogPWM used to scan the reverse strand.
func (lp LogPWM) ReverseComplement() LogPWM {
	w := lp.Width()
	m := mat.NewDense(alphabet.Size, w, nil)
	for row := 0; row < alphabet.Size; row++ {
		crow := alphabet.ComplementRow(row)
		for col := 0; col < w; col++ {
			m.Set(row, col, lp.At(crow, w-1-col))
		}
	}
	return LogPWM{m: m}
}

// ReverseComplement returns the column-reversed, row-complemented PWM,
// used by TOMTOM to compare a query against a target's opposite strand.
func (p PWM) ReverseComplement() PWM {
	w := p.Width()
	m := mat.NewDense(alphabet.Size, w, nil)
	for row := 0; row < alphabet.Size; row++ {
		crow := alphabet.ComplementRow(row)
		for col := 0; col < w; col++ {
			m.Set(row, col, p.At(crow, w-1-col))
		}
	}
	return PWM{m: m}
}

// Characters extracts the consensus sequence: per column, the alphabet
// symbol with the largest probability. A tie is a validation error
// unless force is true, in which case the lowest-indexed symbol (A
// before C before G before T) wins.
func Characters(p PWM, force bool) (string, error) {
	w := p.Width()
	out := make([]byte, w)
	for col := 0; col < w; col++ {
		best, bestVal := 0, p.At(0, col)
		tie := false
		for row := 1; row < alphabet.Size; row++ {
			v := p.At(row, col)
			if v > bestVal {
				best, bestVal = row, v
				tie = false
			} else if v == bestVal {
				tie = true
			}
		}
		if tie && !force {
			return "", motiferr.Invalidf("pwm.Characters",
				"tie at column %d; pass force=true to break ties", col)
		}
		out[col] = alphabet.Symbol(best)
	}
	return string(out), nil
}

// Motif is a named PWM plus the informational metadata MEME records
// carry alongside it. Only Name and the PWM itself are load-bearing for
// fimo/tomtom; the rest round-trips through meme.Read/meme.Write.
type Motif struct {
	Name   string
	PWM    PWM
	NSites int     // 0 if absent from the source.
	EValue float64 // 0 if absent from the source.
	URL    string
}

// Width is a convenience forward to m.PWM.Width().
func (m Motif) Width() int { return m.PWM.Width() }
