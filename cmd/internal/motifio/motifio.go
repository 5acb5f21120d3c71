// Package motifio loads MEME motif databases and FASTA sequences from a
// local path or an s3:// URI, for the bio-fimo and bio-tomtom command
// line tools. It is CLI glue, not part of the scoring core: nothing
// under scoredist, fimo, or tomtom imports it.
package motifio

import (
	"bufio"
	"context"
	"strings"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/grailbio/motifscan/encoding/meme"
	"github.com/grailbio/motifscan/fimo"
	"github.com/pkg/errors"
)

func init() {
	// Registering "s3" here, rather than requiring every caller to do
	// it, mirrors encoding/bamprovider's TestMain bootstrap so bio-fimo
	// and bio-tomtom can take "s3://bucket/key" motif/sequence paths
	// out of the box.
	file.RegisterImplementation("s3", func() file.Implementation {
		return s3file.NewImplementation(s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
	})
}

// ReadMotifs loads a MEME motif database from path (local or s3://).
func ReadMotifs(ctx context.Context, path string, maxMotifs int) (meme.Database, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return meme.Database{}, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close(ctx) // nolint: errcheck
	return meme.Read(f.Reader(ctx), maxMotifs)
}

// ReadSequences loads a FASTA file from path (local or s3://) into
// fimo.Sequence values, in file order.
func ReadSequences(ctx context.Context, path string) ([]fimo.Sequence, error) {
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close(ctx) // nolint: errcheck

	var seqs []fimo.Sequence
	var name string
	var body strings.Builder
	flush := func() {
		if name != "" {
			seqs = append(seqs, fimo.Sequence{Name: name, Seq: body.String()})
		}
		body.Reset()
	}

	scanner := bufio.NewScanner(f.Reader(ctx))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if line[0] == '>' {
			flush()
			fields := strings.Fields(line[1:])
			if len(fields) > 0 {
				name = fields[0]
			} else {
				name = ""
			}
			continue
		}
		body.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	flush()
	return seqs, nil
}
