package dedup

import "fmt"

// MinimizerParams configures minimizer extraction.
type MinimizerParams struct {
	// KmerLen is the k-mer length, k <= 32 and k <= WindowLen.
	KmerLen int
	// WindowLen is the width of each adjacent window, in bytes.
	WindowLen int
	// NumWindows bounds the number of windows considered, starting at
	// offset 0.
	NumWindows int
}

// Validate reports the configuration violations spec.md §7 names
// explicitly: a k-mer length above 32 (wider than a packed uint64 can
// hold two bits per base for) or wider than the window it is drawn from.
// The engine itself does not call this; driver/cmd layers call it once at
// startup and surface a fatal, human-readable error.
func (p MinimizerParams) Validate() error {
	if p.KmerLen > 32 {
		return fmt.Errorf("kmer-len must be <= 32, got %d", p.KmerLen)
	}
	if p.KmerLen > p.WindowLen {
		return fmt.Errorf("kmer-len (%d) must be <= window-len (%d)", p.KmerLen, p.WindowLen)
	}
	return nil
}

// kmerMask returns a mask covering the low 2*k bits, the width of a packed
// k-mer of length k.
func kmerMask(k int) uint64 {
	if k >= 32 {
		return ^uint64(0)
	}
	return (uint64(1) << uint(2*k)) - 1
}

// extractMinimizers returns up to p.NumWindows minimizers for seq, one per
// adjacent window of length p.WindowLen starting at byte offsets
// 0, WindowLen, 2*WindowLen, .... A window contributes no minimizer if it
// contains no run of p.KmerLen consecutive valid bases, and windows that
// would start past the end of seq are not considered.
func extractMinimizers(seq string, p MinimizerParams) []uint64 {
	out := make([]uint64, 0, p.NumWindows)
	k := p.KmerLen
	mask := kmerMask(k)
	for w := 0; w < p.NumWindows; w++ {
		start := w * p.WindowLen
		if start >= len(seq) {
			break
		}
		end := start + p.WindowLen
		if end > len(seq) {
			end = len(seq)
		}
		var (
			acc      uint64
			streak   int
			min      uint64
			haveMin  bool
		)
		for i := start; i < end; i++ {
			code := baseCode[seq[i]]
			if code == invalidBase {
				acc = 0
				streak = 0
				continue
			}
			acc = ((acc << 2) | uint64(code)) & mask
			streak++
			if streak >= k {
				if !haveMin || acc < min {
					min = acc
					haveMin = true
				}
			}
		}
		if haveMin {
			out = append(out, min)
		}
	}
	return out
}

// dedupMinimizers removes repeated values from minimizers, preserving
// first-seen order. A single read's forward and reverse windows can
// legally produce the same minimizer (e.g. a low-complexity window, or a
// collision between a forward and reverse window); a new cluster's leader
// must appear at most once per distinct minimizer in BucketIndex, per
// spec.md §3/§4.4.
func dedupMinimizers(minimizers []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(minimizers))
	out := make([]uint64, 0, len(minimizers))
	for _, m := range minimizers {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}
