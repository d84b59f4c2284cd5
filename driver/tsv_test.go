package driver

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/seqdedup/dedup"
	"github.com/grailbio/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunTSVMarksSimilarityDuplicates(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	fwd := "ACGTACGTACGTACGTACGTACGTAC"
	rev := "TTGGCCAATTGGCCAATTGGCCAATT"
	qualHi := "IIIIIIIIIIIIIIIIIIIIIIIIII"
	qualLo := "!!!!!!!!!!!!!!!!!!!!!!!!!!"

	header := "seq_id\tquery_seq\tquery_seq_rev\tquery_qual\tquery_qual_rev\tprim_align_dup_exemplar"
	rows := []string{
		header,
		strings.Join([]string{"a", fwd, rev, qualLo, qualLo, "a"}, "\t"),
		strings.Join([]string{"b", fwd, rev, qualHi, qualHi, "b"}, "\t"),
		strings.Join([]string{"c", "N", "N", "I", "I", "a"}, "\t"), // alignment duplicate, skipped in pass 1
	}
	input := strings.Join(rows, "\n") + "\n"

	inputPath := filepath.Join(tempDir, "in.tsv.gz")
	require.NoError(t, ioutil.WriteFile(inputPath, gzipBytes(t, input), 0644))

	outputPath := filepath.Join(tempDir, "out.tsv.gz")
	ctx := vcontext.Background()
	err := RunTSV(ctx, TSVOpts{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Engine: dedup.Opts{
			Dedup:     dedup.DedupParams{MaxOffset: 1, MaxErrorFrac: 0.01},
			Minimizer: dedup.MinimizerParams{KmerLen: 15, WindowLen: 25, NumWindows: 4},
		},
	})
	require.NoError(t, err)

	out := gunzipString(t, outputPath)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, header+"\tsim_dup_exemplar", lines[0])
	assert.Equal(t, "a\t"+fwd+"\t"+rev+"\t"+qualLo+"\t"+qualLo+"\ta\tb", lines[1])
	assert.Equal(t, "b\t"+fwd+"\t"+rev+"\t"+qualHi+"\t"+qualHi+"\tb\tb", lines[2])
	assert.True(t, strings.HasSuffix(lines[3], "\tNA"))
}

// TestRunTSVShortRowPastReorderedColumnFailsCleanly exercises a header
// that places prim_align_dup_exemplar before the last required column
// (query_qual_rev), so a short row that satisfies the old
// cols[colPrimAlign]+1 bound but not the true highest required index
// must be rejected with an error, not an index-out-of-range panic.
func TestRunTSVShortRowPastReorderedColumnFailsCleanly(t *testing.T) {
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	header := "seq_id\tquery_seq\tquery_seq_rev\tquery_qual\tprim_align_dup_exemplar\tquery_qual_rev"
	rows := []string{
		header,
		strings.Join([]string{"a", "ACGT", "TTTT", "IIII", "a"}, "\t"), // missing query_qual_rev field
	}
	input := strings.Join(rows, "\n") + "\n"

	inputPath := filepath.Join(tempDir, "in.tsv.gz")
	require.NoError(t, ioutil.WriteFile(inputPath, gzipBytes(t, input), 0644))

	outputPath := filepath.Join(tempDir, "out.tsv.gz")
	ctx := vcontext.Background()
	err := RunTSV(ctx, TSVOpts{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Engine: dedup.Opts{
			Dedup:     dedup.DedupParams{MaxOffset: 1, MaxErrorFrac: 0.01},
			Minimizer: dedup.MinimizerParams{KmerLen: 15, WindowLen: 25, NumWindows: 4},
		},
	})
	assert.Error(t, err)
}
