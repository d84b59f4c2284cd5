package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMinimizersShortSequence(t *testing.T) {
	m := extractMinimizers("AC", MinimizerParams{KmerLen: 15, WindowLen: 25, NumWindows: 4})
	assert.Empty(t, m)
}

func TestExtractMinimizersWindowsPastEndNotEmitted(t *testing.T) {
	seq := "ACGTACGTACGTACGTACGTACGTA" // 25 bytes, exactly one window
	m := extractMinimizers(seq, MinimizerParams{KmerLen: 4, WindowLen: 25, NumWindows: 4})
	assert.Len(t, m, 1)
}

func TestExtractMinimizersDeterministic(t *testing.T) {
	seq := "ACGTACGTACGTACGTACGTACGTA"
	p := MinimizerParams{KmerLen: 4, WindowLen: 25, NumWindows: 1}
	a := extractMinimizers(seq, p)
	b := extractMinimizers(seq, p)
	assert.Equal(t, a, b)
}

func TestDedupMinimizersRemovesRepeatsPreservingOrder(t *testing.T) {
	out := dedupMinimizers([]uint64{5, 3, 5, 3, 7})
	assert.Equal(t, []uint64{5, 3, 7}, out)
}

func TestMinimizerParamsValidate(t *testing.T) {
	assert.NoError(t, MinimizerParams{KmerLen: 15, WindowLen: 25, NumWindows: 4}.Validate())
	assert.Error(t, MinimizerParams{KmerLen: 33, WindowLen: 40, NumWindows: 4}.Validate())
	assert.Error(t, MinimizerParams{KmerLen: 20, WindowLen: 10, NumWindows: 4}.Validate())
}
