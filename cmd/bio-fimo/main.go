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
	"github.com/grailbio/motifscan/fimo"
	"github.com/grailbio/motifscan/pwm"
)

var (
	motifsPath    = flag.String("motifs", "", "MEME motif database path (local or s3://); required")
	sequencesPath = flag.String("sequences", "", "FASTA sequences path (local or s3://); required")
	outPath       = flag.String("out", "", "Output TSV path. Defaults to stdout")
	threshold     = flag.Float64("threshold", 1e-4, "Maximum hit p-value to report")
	binSize       = flag.Float64("bin-size", 0.1, "Score discretization bin size")
	eps           = flag.Float64("eps", 1e-4, "LogPWM pseudocount")
	rc            = flag.Bool("rc", true, "Also scan the reverse-complement strand")
	maxMotifs     = flag.Int("max-motifs", 0, "Stop after parsing this many motifs; 0 means no cap")
	parallelism   = flag.Int("parallelism", 0, "Maximum number of motifs to scan concurrently; 0 means sequential")
)

func bioFimoUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s -motifs FILE -sequences FILE [OPTIONS]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = bioFimoUsage
	shutdown := grail.Init()
	defer shutdown()

	if *motifsPath == "" || *sequencesPath == "" {
		flag.Usage()
		log.Fatalf("-motifs and -sequences are required")
	}

	ctx := vcontext.Background()
	db, err := motifio.ReadMotifs(ctx, *motifsPath, *maxMotifs)
	if err != nil {
		log.Fatalf("reading motifs: %v", err)
	}
	sequences, err := motifio.ReadSequences(ctx, *sequencesPath)
	if err != nil {
		log.Fatalf("reading sequences: %v", err)
	}

	motifs := make([]pwm.Motif, 0, len(db.Order))
	for _, name := range db.Order {
		m, _ := db.Get(name)
		motifs = append(motifs, m)
	}

	opts := fimo.DefaultOpts()
	opts.Threshold = *threshold
	opts.BinSize = *binSize
	opts.Eps = *eps
	opts.ReverseComplement = *rc
	opts.Parallelism = *parallelism

	results, err := fimo.Scan(motifs, sequences, opts)
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

	fmt.Fprintln(w, "motif_id\tsequence_name\tstart\tstop\tstrand\tscore\tp-value")
	for _, res := range results {
		for _, hit := range res.Hits {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%g\t%g\n",
				res.MotifName, sequences[hit.SequenceIdx].Name,
				hit.Start, hit.End, hit.Strand, hit.Score, hit.PValue)
		}
	}
	log.Debug.Printf("exiting")
}
