package pwm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRows() [][]float64 {
	return [][]float64{
		{0.7, 0.1, 0.1, 0.25},
		{0.1, 0.7, 0.1, 0.25},
		{0.1, 0.1, 0.7, 0.25},
		{0.1, 0.1, 0.1, 0.25},
	}
}

func TestNewValid(t *testing.T) {
	p, err := New(validRows())
	require.NoError(t, err)
	assert.Equal(t, 4, p.Width())
	assert.InDelta(t, 0.7, p.At(0, 0), 1e-9)
}

func TestNewWrongRowCount(t *testing.T) {
	rows := validRows()[:3]
	_, err := New(rows)
	require.Error(t, err)
}

func TestNewRaggedRows(t *testing.T) {
	rows := validRows()
	rows[1] = append(rows[1], 0.5)
	_, err := New(rows)
	require.Error(t, err)
}

func TestNewZeroWidth(t *testing.T) {
	rows := [][]float64{{}, {}, {}, {}}
	_, err := New(rows)
	require.Error(t, err)
}

func TestNewColumnSumOutOfTolerance(t *testing.T) {
	rows := validRows()
	rows[0][0] = 0.9 // column 0 now sums to ~1.2
	_, err := New(rows)
	require.Error(t, err)
}

func TestNewColumnSumWithinTolerance(t *testing.T) {
	rows := validRows()
	rows[0][0] += 5e-4 // still within columnSumTolerance
	_, err := New(rows)
	require.NoError(t, err)
}

func TestToLogMatchesFormula(t *testing.T) {
	p, err := New(validRows())
	require.NoError(t, err)
	lp := p.ToLog(0.01)
	want := math.Log2((0.7 + 0.01) / background)
	assert.InDelta(t, want, lp.At(0, 0), 1e-9)
}

func TestToLogDefaultEps(t *testing.T) {
	p, err := New(validRows())
	require.NoError(t, err)
	lp := p.ToLog(0)
	want := math.Log2((0.7 + DefaultEps) / background)
	assert.InDelta(t, want, lp.At(0, 0), 1e-9)
}

func TestLogPWMReverseComplementIsInvolution(t *testing.T) {
	p, err := New(validRows())
	require.NoError(t, err)
	lp := p.ToLog(DefaultEps)

	rc := lp.ReverseComplement()
	rc2 := rc.ReverseComplement()

	for row := 0; row < 4; row++ {
		for col := 0; col < lp.Width(); col++ {
			assert.InDelta(t, lp.At(row, col), rc2.At(row, col), 1e-9)
		}
	}
}

func TestPWMReverseComplementSwapsComplementaryColumns(t *testing.T) {
	p, err := New(validRows())
	require.NoError(t, err)
	rc := p.ReverseComplement()

	w := p.Width()
	for col := 0; col < w; col++ {
		srcCol := w - 1 - col
		assert.InDelta(t, p.At(0, srcCol), rc.At(3, col), 1e-9) // A <-> T
		assert.InDelta(t, p.At(1, srcCol), rc.At(2, col), 1e-9) // C <-> G
	}
}

func TestCharactersConsensus(t *testing.T) {
	p, err := New(validRows())
	require.NoError(t, err)
	// Column 3 of validRows is uniform (a four-way tie), so force is
	// needed for the call to succeed; columns 0-2 have clear winners.
	got, err := Characters(p, true)
	require.NoError(t, err)
	assert.Equal(t, "ACG", got[:3])
}

func TestCharactersTieRequiresForce(t *testing.T) {
	rows := [][]float64{
		{0.25, 0},
		{0.25, 0},
		{0.25, 0},
		{0.25, 1},
	}
	p, err := New(rows)
	require.NoError(t, err)

	_, err = Characters(p, false)
	require.Error(t, err)

	got, err := Characters(p, true)
	require.NoError(t, err)
	assert.Equal(t, byte('A'), got[0])
}

func TestMotifWidth(t *testing.T) {
	p, err := New(validRows())
	require.NoError(t, err)
	m := Motif{Name: "test", PWM: p}
	assert.Equal(t, p.Width(), m.Width())
}
