package dedup

// DedupParams configures similarity checking.
type DedupParams struct {
	// MaxOffset is the largest shift (delta) tried between two sequences.
	MaxOffset int
	// MaxErrorFrac is the fraction of an overlap's length that may be
	// mismatches plus shift, epsilon in [0,1].
	MaxErrorFrac float64
}

// similar reports whether a and b match under the shift-tolerant model: for
// some offset d in [0, maxOffset] and some shift direction, the overlapping
// region differs in at most floor(maxErrorFrac*overlapLen) positions,
// counting the offset itself as d errors against that budget.
func similar(a, b []byte, p DedupParams) bool {
	if offsetSimilar(a, b, 0, p) {
		return true
	}
	for d := 1; d <= p.MaxOffset; d++ {
		// a shifted right relative to b: compare a[d:] against b[:len-d].
		if offsetSimilar(a[minInt(d, len(a)):], b, d, p) {
			return true
		}
		// b shifted right relative to a: compare b[d:] against a[:len-d].
		if offsetSimilar(a, b[minInt(d, len(b)):], d, p) {
			return true
		}
	}
	return false
}

// offsetSimilar compares a against b directly (already shifted by the
// caller), charging d errors up front for the offset itself.
func offsetSimilar(a, b []byte, d int, p DedupParams) bool {
	overlap := minInt(len(a), len(b))
	if overlap == 0 {
		return false
	}
	maxErrors := int(p.MaxErrorFrac * float64(overlap))
	if d > maxErrors {
		return false
	}
	budget := maxErrors - d
	mismatches := 0
	for i := 0; i < overlap; i++ {
		if a[i] != b[i] {
			mismatches++
			if mismatches > budget {
				return false
			}
		}
	}
	return true
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// pairSimilar implements the paired-read similarity test: either the
// standard orientation (fwdA~fwdB and revA~revB) or the swapped orientation
// (fwdA~revB and revA~fwdB) is sufficient.
func pairSimilar(fwdA, revA, fwdB, revB []byte, p DedupParams) bool {
	if similar(fwdA, fwdB, p) && similar(revA, revB, p) {
		return true
	}
	return similar(fwdA, revB, p) && similar(revA, fwdB, p)
}
