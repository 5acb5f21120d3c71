// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// See doc.go for documentation.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/motifscan/cmd/internal/motifio"
	"github.com/grailbio/motifscan/encoding/meme"
	"github.com/grailbio/motifscan/pwm"
	"github.com/grailbio/motifscan/tomtom"
)

var (
	queriesPath = flag.String("queries", "", "Query MEME motif database path (local or s3://); required")
	targetsPath = flag.String("targets", "", "Target MEME motif database path (local or s3://); required")
	outPath     = flag.String("out", "", "Output TSV path. Defaults to stdout")
	nScoreBins  = flag.Int("score-bins", 100, "Bin count for the convolution p-value mode")
	nMedianBins = flag.Int("median-bins", 1000, "BinnedMedian bucket count")
	rc          = flag.Bool("rc", true, "Also align against the reverse-complement of every target")
	pValueMode  = flag.String("pvalue-mode", "placeholder", "\"placeholder\" or \"convolution\"")
	parallelism = flag.Int("parallelism", 0, "Maximum number of (query,target) pairs to compare concurrently; 0 means sequential")
)

func bioTomtomUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s -queries FILE -targets FILE [OPTIONS]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = bioTomtomUsage
	shutdown := grail.Init()
	defer shutdown()

	if *queriesPath == "" || *targetsPath == "" {
		flag.Usage()
		log.Fatalf("-queries and -targets are required")
	}

	var mode tomtom.PValueMode
	switch *pValueMode {
	case "placeholder":
		mode = tomtom.PValuePlaceholder
	case "convolution":
		mode = tomtom.PValueConvolution
	default:
		log.Fatalf("unknown -pvalue-mode %q; want \"placeholder\" or \"convolution\"", *pValueMode)
	}

	ctx := vcontext.Background()
	queryDB, err := motifio.ReadMotifs(ctx, *queriesPath, 0)
	if err != nil {
		log.Fatalf("reading queries: %v", err)
	}
	targetDB, err := motifio.ReadMotifs(ctx, *targetsPath, 0)
	if err != nil {
		log.Fatalf("reading targets: %v", err)
	}

	queries := motifsOf(queryDB)
	targets := motifsOf(targetDB)

	opts := tomtom.DefaultOpts()
	opts.NScoreBins = *nScoreBins
	opts.NMedianBins = *nMedianBins
	opts.ReverseComplement = *rc
	opts.PValueMode = mode
	opts.Parallelism = *parallelism

	result, err := tomtom.Compare(queries, targets, opts)
	if err != nil {
		log.Panicf("%v", err)
	}

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatalf("creating %s: %v", *outPath, err)
		}
		defer f.Close()
		out = f
	}
	w := bufio.NewWriter(out)
	defer w.Flush()

	fmt.Fprintln(w, "query_id\ttarget_id\toffset\toverlap\tstrand\tscore\tp-value")
	for qi, q := range queries {
		for ti, t := range targets {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%g\t%g\n",
				q.Name, t.Name,
				result.Offsets[qi][ti], result.Overlaps[qi][ti], result.Strands[qi][ti],
				result.Scores[qi][ti], result.PValues[qi][ti])
		}
	}
	log.Debug.Printf("exiting")
}

func motifsOf(db meme.Database) []pwm.Motif {
	motifs := make([]pwm.Motif, 0, len(db.Order))
	for _, name := range db.Order {
		m, _ := db.Get(name)
		motifs = append(motifs, m)
	}
	return motifs
}
