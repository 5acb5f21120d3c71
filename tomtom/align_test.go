package tomtom

import (
	"math"
	"testing"

	"github.com/grailbio/motifscan/pwm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func motifFromRows(t *testing.T, rows [][]float64) pwm.PWM {
	p, err := pwm.New(rows)
	require.NoError(t, err)
	return p
}

func TestDistanceMatrixIdenticalColumnsAreZero(t *testing.T) {
	rows := [][]float64{
		{0.7, 0.1},
		{0.1, 0.7},
		{0.1, 0.1},
		{0.1, 0.1},
	}
	p := motifFromRows(t, rows)
	d := distanceMatrix(p, p)
	for tp := range d {
		for qp := range d[tp] {
			if tp == qp {
				assert.InDelta(t, 0, d[tp][qp], 1e-9)
			}
		}
	}
}

func TestDistanceMatrixShape(t *testing.T) {
	q := motifFromRows(t, [][]float64{
		{0.25, 0.25, 0.25},
		{0.25, 0.25, 0.25},
		{0.25, 0.25, 0.25},
		{0.25, 0.25, 0.25},
	})
	target := motifFromRows(t, [][]float64{
		{0.25, 0.25},
		{0.25, 0.25},
		{0.25, 0.25},
		{0.25, 0.25},
	})
	d := distanceMatrix(q, target)
	require.Len(t, d, 2) // wt rows
	for _, row := range d {
		assert.Len(t, row, 3) // wq columns
	}
}

func TestCenterColumnsEmptyMatrix(t *testing.T) {
	got := centerColumns(nil, 100)
	assert.Nil(t, got)
}

func TestEnumerateOffsetsTiesPreferSmallestOffset(t *testing.T) {
	// A flat distance matrix: every offset scores identically, so the
	// smallest offset in the enumerated range must win.
	centered := [][]float64{
		{0, 0},
		{0, 0},
	}
	offset, _, _ := enumerateOffsets(centered, 2, 2)
	assert.Equal(t, -1, offset) // smallest offset tried is -(wq-1) = -1
}

func TestEnumerateOffsetsPicksHigherScore(t *testing.T) {
	// A single query column (wq=1) against a 3-column target: offset 1
	// aligns it with the target's middle column, whose value (5) is
	// clearly the best of the three candidate offsets (0, 1, 2).
	centered := [][]float64{
		{1},
		{5},
		{2},
	}
	offset, overlap, score := enumerateOffsets(centered, 1, 3)
	assert.Equal(t, 1, offset)
	assert.Equal(t, 1, overlap)
	assert.InDelta(t, 5.0, score, 1e-9)
}

func TestBestAlignmentPicksReverseComplementWhenBetter(t *testing.T) {
	// Construct a query identical to the target's reverse complement,
	// so the RC orientation must score at least as well as forward. The
	// query ("AC") is not its own reverse complement ("GT"), so the RC
	// orientation scores strictly higher and must be chosen.
	q := motifFromRows(t, [][]float64{
		{0.7, 0.1},
		{0.1, 0.7},
		{0.1, 0.1},
		{0.1, 0.1},
	})
	target := q.ReverseComplement()

	opts := DefaultOpts()
	best := bestAlignment(q, target, opts)
	assert.True(t, math.IsInf(best.score, 0) == false)
	assert.Equal(t, 1, best.strand)
	// The RC orientation of target equals q itself, so it should be at
	// least as good a match as the raw forward comparison.
	forwardOnly := opts
	forwardOnly.ReverseComplement = false
	forwardBest := bestAlignment(q, target, forwardOnly)
	assert.GreaterOrEqual(t, best.score, forwardBest.score-1e-9)
}
