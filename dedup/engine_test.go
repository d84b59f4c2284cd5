package dedup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultOpts() Opts {
	return Opts{
		Dedup:     DedupParams{MaxOffset: 1, MaxErrorFrac: 0.01},
		Minimizer: MinimizerParams{KmerLen: 15, WindowLen: 25, NumWindows: 4},
	}
}

func qual(n int, phred byte) []byte {
	q := make([]byte, n)
	for i := range q {
		q[i] = 33 + phred
	}
	return q
}

func TestIdenticalPairOneCluster(t *testing.T) {
	ctx := NewContext(defaultOpts())
	fwd := strings.Repeat("ACGTACGTAC", 10)
	rev := strings.Repeat("TTGGCCAATT", 10)

	ctx.ProcessRead("a", []byte(fwd), []byte(rev), qual(len(fwd), 30), qual(len(rev), 20))
	ctx.ProcessRead("b", []byte(fwd), []byte(rev), qual(len(fwd), 35), qual(len(rev), 35))

	stats := ctx.Finalize()
	assert.Equal(t, 2, stats.TotalReads)
	assert.Equal(t, 1, stats.UniqueClusters)
	assert.Equal(t, "b", ctx.BestID("a"))
	assert.Equal(t, "b", ctx.BestID("b"))
}

func TestSingleBaseMismatchWithinBudget(t *testing.T) {
	ctx := NewContext(Opts{
		Dedup:     DedupParams{MaxOffset: 0, MaxErrorFrac: 0.01},
		Minimizer: MinimizerParams{KmerLen: 15, WindowLen: 25, NumWindows: 4},
	})
	fwdA := strings.Repeat("A", 100)
	fwdB := "C" + strings.Repeat("A", 99)
	rev := strings.Repeat("G", 100)

	ctx.ProcessRead("a", []byte(fwdA), []byte(rev), qual(100, 30), qual(100, 30))
	ctx.ProcessRead("b", []byte(fwdB), []byte(rev), qual(100, 30), qual(100, 30))

	stats := ctx.Finalize()
	assert.Equal(t, 1, stats.UniqueClusters)
}

func TestSingleBaseMismatchOutsideBudget(t *testing.T) {
	ctx := NewContext(Opts{
		Dedup:     DedupParams{MaxOffset: 0, MaxErrorFrac: 0.01},
		Minimizer: MinimizerParams{KmerLen: 15, WindowLen: 25, NumWindows: 4},
	})
	fwdA := strings.Repeat("A", 50)
	fwdB := "C" + strings.Repeat("A", 49)
	rev := strings.Repeat("G", 50)

	ctx.ProcessRead("a", []byte(fwdA), []byte(rev), qual(50, 30), qual(50, 30))
	ctx.ProcessRead("b", []byte(fwdB), []byte(rev), qual(50, 30), qual(50, 30))

	stats := ctx.Finalize()
	assert.Equal(t, 2, stats.UniqueClusters)
}

func TestShiftTolerantMatch(t *testing.T) {
	assert.True(t, similar([]byte("ACGTACGT"), []byte("CGTACGTA"), DedupParams{MaxOffset: 1, MaxErrorFrac: 1.0}))
	// At MaxErrorFrac 1.0 the unshifted comparison already fits the budget,
	// so check a budget that only the 1-bp shift can meet: unshifted, all 8
	// positions differ against a budget of 2; shifted, the 7-base overlap
	// has budget 1, paid by the offset, and no mismatches.
	assert.False(t, similar([]byte("ACGTACGT"), []byte("CGTACGTA"), DedupParams{MaxOffset: 0, MaxErrorFrac: 0.25}))
	assert.True(t, similar([]byte("ACGTACGT"), []byte("CGTACGTA"), DedupParams{MaxOffset: 1, MaxErrorFrac: 0.25}))
}

func TestAdapterSwapOrientation(t *testing.T) {
	x := []byte(strings.Repeat("ACGTACGTAC", 5))
	y := []byte(strings.Repeat("GGCCTTAACC", 5))
	p := DedupParams{MaxOffset: 0, MaxErrorFrac: 0}

	// Standard orientation (x~x, y~y) trivially holds too, so pick sequences
	// where only the swapped orientation can possibly match: compare A=(x,y)
	// against B=(y,x) directly.
	assert.False(t, similar(x, y, p)) // standard orientation would fail: x !~ y
	assert.True(t, pairSimilar(x, y, y, x, p))
}

func TestInvalidBasesResetRollingHash(t *testing.T) {
	// The N splits the window into two 5-base runs; only 4-mers fully
	// inside one run count, and each run holds AAAA (packed value 0).
	m := extractMinimizers("AAAAANAAAAA", MinimizerParams{KmerLen: 4, WindowLen: 11, NumWindows: 1})
	assert.Equal(t, []uint64{0}, m)
}

func TestEmptyMinimizerListOpensNewCluster(t *testing.T) {
	ctx := NewContext(defaultOpts())
	allN := strings.Repeat("N", 40)
	ctx.ProcessRead("a", []byte(allN), []byte(allN), qual(40, 30), qual(40, 30))
	ctx.ProcessRead("b", []byte(allN), []byte(allN), qual(40, 30), qual(40, 30))

	stats := ctx.Finalize()
	assert.Equal(t, 2, stats.UniqueClusters)
}

func TestNewClusterLeaderAppearsOnceEvenWithDuplicateMinimizers(t *testing.T) {
	ctx := NewContext(defaultOpts())
	// Identical fwd/rev sequences guarantee fwd and rev windows produce the
	// same minimizer values, so the combined per-read minimizer list
	// contains duplicates.
	seq := strings.Repeat("ACGTACGTAC", 10)
	idx := ctx.ProcessRead("a", []byte(seq), []byte(seq), qual(len(seq), 30), qual(len(seq), 30))

	for m, leaders := range ctx.buckets {
		count := 0
		for _, l := range leaders {
			if l == idx {
				count++
			}
		}
		assert.Truef(t, count <= 1, "leader %d appears %d times in bucket %d", idx, count, m)
	}
}

func TestEmptySequencePairScoresZero(t *testing.T) {
	require.Equal(t, float64(0), qualityScore(nil, nil, 0, 0))
}

func TestReflexivity(t *testing.T) {
	seq := []byte("ACGTACGTACGTACGTACGT")
	assert.True(t, similar(seq, seq, DedupParams{MaxOffset: 0, MaxErrorFrac: 0}))
}

func TestMonotonicityInEpsilon(t *testing.T) {
	a := []byte(strings.Repeat("A", 20))
	b := "C" + strings.Repeat("A", 19)
	p1 := DedupParams{MaxOffset: 0, MaxErrorFrac: 0.01}
	p2 := DedupParams{MaxOffset: 0, MaxErrorFrac: 0.5}
	assert.False(t, similar(a, []byte(b), p1))
	assert.True(t, similar(a, []byte(b), p2))
}

func TestPostFinalizationLookupIdempotent(t *testing.T) {
	ctx := NewContext(defaultOpts())
	ctx.ProcessRead("a", []byte("ACGT"), []byte("TTTT"), qual(4, 30), qual(4, 30))
	ctx.Finalize()
	assert.Equal(t, ctx.BestID("a"), ctx.BestID("a"))
}

func TestUnknownIDPassesThroughAfterFinalize(t *testing.T) {
	ctx := NewContext(defaultOpts())
	ctx.ProcessRead("a", []byte("ACGT"), []byte("TTTT"), qual(4, 30), qual(4, 30))
	ctx.Finalize()
	assert.Equal(t, "never-seen", ctx.BestID("never-seen"))
}

func TestExemplarSetClosure(t *testing.T) {
	ctx := NewContext(defaultOpts())
	fwd := strings.Repeat("ACGTACGTAC", 10)
	rev := strings.Repeat("TTGGCCAATT", 10)
	ctx.ProcessRead("a", []byte(fwd), []byte(rev), qual(len(fwd), 30), qual(len(rev), 30))
	ctx.ProcessRead("b", []byte(fwd), []byte(rev), qual(len(fwd), 40), qual(len(rev), 40))
	ctx.ProcessRead("c", []byte("TTTTTTTTTTTTTTTTTTTT"), []byte("TTTTTTTTTTTTTTTTTTTT"), qual(20, 30), qual(20, 30))

	ctx.Finalize()

	exemplars := ctx.ExemplarIndices()
	seen := make(map[int32]struct{})
	for _, id := range []string{"a", "b", "c"} {
		idx, ok := ctx.reg.lookup(id)
		require.True(t, ok)
		best := ctx.assignment[idx]
		seen[best] = struct{}{}
	}
	assert.Equal(t, exemplars, seen)
}
