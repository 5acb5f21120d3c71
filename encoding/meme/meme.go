// Package meme reads and writes the MEME motif text format. Its only job
// is shaping MEME text into pwm.Motif values the scoring engines
// consume, following the same leniency conventions grailbio-bio's FASTA
// reader uses for malformed records.
package meme

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/grailbio/motifscan/alphabet"
	"github.com/grailbio/motifscan/motiferr"
	"github.com/grailbio/motifscan/pwm"
	"github.com/pkg/errors"
)

const maxLineBuf = 64 * 1024 * 1024

// Database is the result of Read: a name -> Motif map plus the
// insertion order MEME listed the motifs in, so that order survives a
// Read(Write(db)) round trip.
type Database struct {
	Order  []string
	Motifs map[string]pwm.Motif
}

// Get looks up a motif by name.
func (db Database) Get(name string) (pwm.Motif, bool) {
	m, ok := db.Motifs[name]
	return m, ok
}

// matrixHeaderSearchWindow is how many lines after "MOTIF ..." the
// parser will scan looking for "letter-probability matrix:".
const matrixHeaderSearchWindow = 10

// Read parses MEME text into a Database. maxMotifs <= 0 means no cap;
// otherwise parsing stops after that many motifs parse successfully.
//
// A motif block whose matrix fails to parse is silently omitted (logged
// at Debug level) without aborting the rest of the file.
func Read(r io.Reader, maxMotifs int) (Database, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, maxLineBuf)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return Database{}, errors.Wrap(err, "couldn't read MEME data")
	}

	db := Database{Motifs: map[string]pwm.Motif{}}
	for i := 0; i < len(lines); {
		line := lines[i]
		switch {
		case strings.HasPrefix(line, "ALPHABET="):
			alpha := strings.TrimSpace(strings.TrimPrefix(line, "ALPHABET="))
			if alpha != "ACGT" {
				return Database{}, motiferr.Invalidf("meme.Read", "unsupported alphabet %q", alpha)
			}
			i++
		case strings.HasPrefix(line, "MOTIF "):
			name := strings.TrimSpace(strings.TrimPrefix(line, "MOTIF "))
			motif, next, ok := parseMotifBlock(name, lines, i+1)
			i = next
			if !ok {
				log.Debug.Printf("meme.Read: skipping motif %q, matrix did not parse", name)
				continue
			}
			db.Order = append(db.Order, name)
			db.Motifs[name] = motif
			if maxMotifs > 0 && len(db.Order) >= maxMotifs {
				return db, nil
			}
		default:
			i++
		}
	}
	return db, nil
}

// parseMotifBlock looks for the "letter-probability matrix:" header
// within matrixHeaderSearchWindow lines of start, then collects w
// valid 4-float rows following it.
func parseMotifBlock(name string, lines []string, start int) (pwm.Motif, int, bool) {
	limit := start + matrixHeaderSearchWindow
	if limit > len(lines) {
		limit = len(lines)
	}
	headerIdx := -1
	var w, nsites int
	var evalue float64
	for i := start; i < limit; i++ {
		if strings.HasPrefix(lines[i], "MOTIF ") {
			break // the next block starts before this one found its header.
		}
		if strings.HasPrefix(lines[i], "letter-probability matrix:") {
			width, ok := parseWidth(lines[i])
			if !ok {
				return pwm.Motif{}, start, false
			}
			headerIdx, w = i, width
			nsites, evalue = parseHeaderMetadata(lines[i])
			break
		}
	}
	if headerIdx < 0 {
		return pwm.Motif{}, start, false
	}

	cols := make([][]float64, 0, w)
	i := headerIdx + 1
	for i < len(lines) && len(cols) < w {
		fields := strings.Fields(lines[i])
		vals, ok := parseFloats(fields)
		if !ok {
			i++ // non-numeric line: skip silently.
			continue
		}
		if len(vals) != alphabet.Size {
			return pwm.Motif{}, i + 1, false // wrong field count: fail this motif.
		}
		cols = append(cols, vals)
		i++
	}
	if len(cols) != w {
		return pwm.Motif{}, i, false
	}

	rows := make([][]float64, alphabet.Size)
	for a := 0; a < alphabet.Size; a++ {
		rows[a] = make([]float64, w)
		for j, col := range cols {
			rows[a][j] = col[a]
		}
	}
	p, err := pwm.New(rows)
	if err != nil {
		return pwm.Motif{}, i, false
	}
	var url string
	if i < len(lines) && strings.HasPrefix(lines[i], "URL ") {
		url = strings.TrimSpace(strings.TrimPrefix(lines[i], "URL "))
	}
	return pwm.Motif{Name: name, PWM: p, NSites: nsites, EValue: evalue, URL: url}, i, true
}

// parseWidth extracts the integer value of "w= <int>" from a
// "letter-probability matrix:" header line; other fields (alength=,
// nsites=, E=) are parsed separately by parseHeaderMetadata.
func parseWidth(header string) (int, bool) {
	fields := strings.Fields(header)
	for _, f := range fields {
		if v, ok := strings.CutPrefix(f, "w="); ok {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				return 0, false
			}
			return n, true
		}
	}
	return 0, false
}

// parseHeaderMetadata extracts "nsites=" and "E=" from a
// "letter-probability matrix:" header line, defaulting each to its zero
// value when absent or unparsable. These fields are informational, never
// load-bearing for scoring.
func parseHeaderMetadata(header string) (nsites int, evalue float64) {
	fields := strings.Fields(header)
	for _, f := range fields {
		if v, ok := strings.CutPrefix(f, "nsites="); ok {
			if n, err := strconv.Atoi(v); err == nil {
				nsites = n
			}
		} else if v, ok := strings.CutPrefix(f, "E="); ok {
			if e, err := strconv.ParseFloat(v, 64); err == nil {
				evalue = e
			}
		}
	}
	return nsites, evalue
}

// parseFloats returns the parsed values only if every field parses as
// a finite float.
func parseFloats(fields []string) ([]float64, bool) {
	if len(fields) == 0 {
		return nil, false
	}
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, false
		}
		vals[i] = v
	}
	return vals, true
}

// Write emits db as MEME text, always listing the uniform background
// and "strands: + -", mirroring what Read expects.
func Write(w io.Writer, db Database) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "MEME version 4")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "ALPHABET= ACGT")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "strands: + -")
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "Background letter frequencies")
	fmt.Fprintln(bw, "A 0.25 C 0.25 G 0.25 T 0.25")
	fmt.Fprintln(bw)

	for _, name := range db.Order {
		m, ok := db.Get(name)
		if !ok {
			continue
		}
		width := m.Width()
		fmt.Fprintf(bw, "MOTIF %s\n", name)
		fmt.Fprintf(bw, "letter-probability matrix: alength= %d w= %d nsites= %d E= %g\n",
			alphabet.Size, width, m.NSites, m.EValue)
		for j := 0; j < width; j++ {
			fmt.Fprintf(bw, "%g %g %g %g\n",
				m.PWM.At(0, j), m.PWM.At(1, j), m.PWM.At(2, j), m.PWM.At(3, j))
		}
		if m.URL != "" {
			fmt.Fprintf(bw, "URL %s\n", m.URL)
		}
		fmt.Fprintln(bw)
	}
	return errors.Wrap(bw.Flush(), "couldn't write MEME data")
}
