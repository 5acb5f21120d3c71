package tomtom

import (
	"testing"

	"github.com/grailbio/motifscan/pwm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func motif(t *testing.T, name string, rows [][]float64) pwm.Motif {
	p, err := pwm.New(rows)
	require.NoError(t, err)
	return pwm.Motif{Name: name, PWM: p}
}

func sampleMotifs(t *testing.T) (pwm.Motif, pwm.Motif) {
	q := motif(t, "q", [][]float64{
		{0.7, 0.1},
		{0.1, 0.7},
		{0.1, 0.1},
		{0.1, 0.1},
	})
	target := motif(t, "t", [][]float64{
		{0.1, 0.7, 0.1},
		{0.7, 0.1, 0.1},
		{0.1, 0.1, 0.7},
		{0.1, 0.1, 0.1},
	})
	return q, target
}

func TestCompareEmptyInputsReturnsZeroResult(t *testing.T) {
	q, target := sampleMotifs(t)
	res, err := Compare(nil, []pwm.Motif{target}, DefaultOpts())
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	res, err = Compare([]pwm.Motif{q}, nil, DefaultOpts())
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
}

func TestCompareSelfAlignmentIsBest(t *testing.T) {
	q, _ := sampleMotifs(t)
	res, err := Compare([]pwm.Motif{q}, []pwm.Motif{q}, DefaultOpts())
	require.NoError(t, err)

	// Aligning a motif against itself should pick offset 0 with full
	// overlap: every other ungapped offset can only overlap fewer
	// columns, each centered around the same per-column median.
	assert.Equal(t, 0, res.Offsets[0][0])
	assert.Equal(t, q.Width(), res.Overlaps[0][0])
}

func TestCompareResultShape(t *testing.T) {
	q, target := sampleMotifs(t)
	queries := []pwm.Motif{q, q}
	targets := []pwm.Motif{target}
	res, err := Compare(queries, targets, DefaultOpts())
	require.NoError(t, err)

	require.Len(t, res.Scores, 2)
	for _, row := range res.Scores {
		assert.Len(t, row, 1)
	}
}

func TestCompareParallelMatchesSequential(t *testing.T) {
	q, target := sampleMotifs(t)
	queries := []pwm.Motif{q, target}
	targets := []pwm.Motif{q, target}

	seq, err := Compare(queries, targets, DefaultOpts())
	require.NoError(t, err)

	par := DefaultOpts()
	par.Parallelism = 4
	parRes, err := Compare(queries, targets, par)
	require.NoError(t, err)

	assert.Equal(t, seq.Scores, parRes.Scores)
	assert.Equal(t, seq.Offsets, parRes.Offsets)
	assert.Equal(t, seq.PValues, parRes.PValues)
}

func TestComparePlaceholderPValueBounds(t *testing.T) {
	q, target := sampleMotifs(t)
	opts := DefaultOpts()
	opts.PValueMode = PValuePlaceholder
	res, err := Compare([]pwm.Motif{q}, []pwm.Motif{target}, opts)
	require.NoError(t, err)

	p := res.PValues[0][0]
	assert.GreaterOrEqual(t, p, 0.0)
	assert.LessOrEqual(t, p, 1.0)
}

func TestCompareConvolutionPValueBounds(t *testing.T) {
	q, target := sampleMotifs(t)
	opts := DefaultOpts()
	opts.PValueMode = PValueConvolution
	res, err := Compare([]pwm.Motif{q}, []pwm.Motif{target}, opts)
	require.NoError(t, err)

	p := res.PValues[0][0]
	assert.GreaterOrEqual(t, p, 0.0)
	assert.LessOrEqual(t, p, 1.0)
}
