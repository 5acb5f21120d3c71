package motifio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, contents string) string {
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestReadSequencesParsesMultiLineRecords(t *testing.T) {
	path := writeTempFile(t, "seqs.fa", ">seq1 description\nACGT\nACGT\n>seq2\nTTTT\n")
	ctx := vcontext.Background()

	seqs, err := ReadSequences(ctx, path)
	require.NoError(t, err)
	require.Len(t, seqs, 2)
	assert.Equal(t, "seq1", seqs[0].Name)
	assert.Equal(t, "ACGTACGT", seqs[0].Seq)
	assert.Equal(t, "seq2", seqs[1].Name)
	assert.Equal(t, "TTTT", seqs[1].Seq)
}

func TestReadSequencesSkipsBlankLines(t *testing.T) {
	path := writeTempFile(t, "seqs.fa", ">seq1\nACGT\n\nACGT\n")
	ctx := vcontext.Background()

	seqs, err := ReadSequences(ctx, path)
	require.NoError(t, err)
	require.Len(t, seqs, 1)
	assert.Equal(t, "ACGTACGT", seqs[0].Seq)
}

func TestReadSequencesDropsRecordWithEmptyHeaderName(t *testing.T) {
	path := writeTempFile(t, "seqs.fa", ">\nACGT\n")
	ctx := vcontext.Background()

	seqs, err := ReadSequences(ctx, path)
	require.NoError(t, err)
	require.Len(t, seqs, 0) // an empty name means flush() never records it
}

func TestReadMotifsLoadsMemeDatabase(t *testing.T) {
	meme := `MEME version 4

ALPHABET= ACGT

MOTIF motif1
letter-probability matrix: alength= 4 w= 2 nsites= 10 E= 1
0.25 0.25 0.25 0.25
0.25 0.25 0.25 0.25
`
	path := writeTempFile(t, "motifs.meme", meme)
	ctx := vcontext.Background()

	db, err := ReadMotifs(ctx, path, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"motif1"}, db.Order)
}
