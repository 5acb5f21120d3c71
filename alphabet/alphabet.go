// Package alphabet implements the fixed 4-symbol DNA alphabet and the
// one-hot sequence encoding that the scoring engines (scoredist, fimo,
// tomtom) are built on.
package alphabet

import (
	"strings"

	"github.com/grailbio/motifscan/motiferr"
	"gonum.org/v1/gonum/mat"
)

// Size is the number of symbols in the DNA alphabet. Every PWM, LogPWM,
// and OneHot matrix has exactly this many rows.
const Size = 4

// symbols holds the alphabet in canonical row order: A, C, G, T. The
// complement permutation (index i complements to index complement[i])
// relies on this exact ordering.
var symbols = [Size]byte{'A', 'C', 'G', 'T'}

var complement = [Size]int{3, 2, 1, 0} // A<->T, C<->G

// index maps an uppercased symbol byte to its row, or -1 if the symbol
// is not a core alphabet letter.
var index = func() map[byte]int {
	m := make(map[byte]int, Size)
	for i, s := range symbols {
		m[s] = i
	}
	return m
}()

// DefaultIgnore is the set of symbols that encode to an all-zero one-hot
// column rather than a validation error; "N" is the only one MEME and
// FASTA data use in practice.
var DefaultIgnore = "N"

// Symbol returns the alphabet letter stored at row i.
func Symbol(i int) byte { return symbols[i] }

// IndexOf returns the row for an uppercase alphabet letter, or -1.
func IndexOf(c byte) int {
	i, ok := index[c]
	if !ok {
		return -1
	}
	return i
}

// OneHot is an alphabet.Size x L matrix over {0,1} with at most one 1 per
// column; a column of all zeros marks an ignored base.
type OneHot struct {
	m *mat.Dense
}

// Len returns the number of columns (the sequence length L).
func (h OneHot) Len() int { return h.m.RawMatrix().Cols }

// At returns H[row][col].
func (h OneHot) At(row, col int) float64 { return h.m.At(row, col) }

// RowAt returns the alphabet row set at column col, or -1 if the column
// is all zero (an ignored base).
func (h OneHot) RowAt(col int) int {
	for r := 0; r < Size; r++ {
		if h.m.At(r, col) == 1 {
			return r
		}
	}
	return -1
}

// Dense exposes the backing matrix for callers that want direct numeric
// access.
func (h OneHot) Dense() *mat.Dense { return h.m }

// validateIgnore checks that the ignore set and the core alphabet are
// disjoint. A caller-supplied ignore set that shadows a real base would
// silently discard sequence data, so this is a validation error, not a
// panic.
func validateIgnore(ignore string) error {
	for i := 0; i < len(ignore); i++ {
		if IndexOf(upper(ignore[i])) >= 0 {
			return motiferr.Invalidf("alphabet.OneHotEncode",
				"ignore set %q overlaps the core alphabet", ignore)
		}
	}
	return nil
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// OneHotEncode builds the one-hot matrix for sequence s. Any symbol in
// ignore (case-insensitive; default alphabet.DefaultIgnore = "N")
// produces an all-zero column. Any other symbol outside {A,C,G,T} is a
// fatal InvalidInput.
func OneHotEncode(s string, ignore string) (OneHot, error) {
	if ignore == "" {
		ignore = DefaultIgnore
	}
	if err := validateIgnore(ignore); err != nil {
		return OneHot{}, err
	}
	ignoreUpper := strings.ToUpper(ignore)
	m := mat.NewDense(Size, len(s), nil)
	for col := 0; col < len(s); col++ {
		c := upper(s[col])
		if strings.IndexByte(ignoreUpper, c) >= 0 {
			continue
		}
		row := IndexOf(c)
		if row < 0 {
			return OneHot{}, motiferr.Invalidf("alphabet.OneHotEncode",
				"unknown symbol %q at position %d", s[col], col)
		}
		m.Set(row, col, 1)
	}
	return OneHot{m: m}, nil
}

// Characters reverses OneHotEncode: for every column it reports the
// alphabet letter with weight 1 (an all-zero column yields the first
// byte of ignore). PWM consensus extraction is a separate function,
// pwm.Characters.
func Characters(h OneHot, ignore string) (string, error) {
	if ignore == "" {
		ignore = DefaultIgnore
	}
	out := make([]byte, h.Len())
	for col := 0; col < h.Len(); col++ {
		row := h.RowAt(col)
		if row < 0 {
			out[col] = ignore[0]
			continue
		}
		out[col] = Symbol(row)
	}
	return string(out), nil
}

// ReverseComplement returns the reverse-complement one-hot matrix: column
// order reversed, rows permuted by the A<->T, C<->G complement. Scanning
// this matrix is how callers search the minus strand without re-encoding
// the original sequence string.
func ReverseComplement(h OneHot) OneHot {
	l := h.Len()
	m := mat.NewDense(Size, l, nil)
	for col := 0; col < l; col++ {
		srcCol := l - 1 - col
		for row := 0; row < Size; row++ {
			if v := h.m.At(complement[row], srcCol); v != 0 {
				m.Set(row, col, v)
			}
		}
	}
	return OneHot{m: m}
}

// ComplementRow returns the alphabet row that row complements to.
func ComplementRow(row int) int { return complement[row] }
