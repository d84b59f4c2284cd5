package dedup

import "strconv"

// Finalize performs the single linear rewrite described in spec.md §4.5:
// every assignment[r] (currently a leader index) is replaced by that
// cluster's best member. After Finalize, the bucket index and exemplar
// store are released; only assignment, clusters, and the registry remain
// live to answer queries.
func (c *Context) Finalize() Stats {
	for r, leader := range c.assignment {
		c.assignment[r] = c.clusters[leader].bestReadIdx
	}
	c.buckets = nil
	c.exemplars = nil
	c.state = finalized

	return Stats{
		TotalReads:     len(c.assignment),
		UniqueClusters: len(c.clusters),
	}
}

// BestID returns the identifier of the cluster-best member for id. If id
// was never ingested, it is returned unchanged (pass-through), per
// spec.md §4.5.
func (c *Context) BestID(id string) string {
	idx, ok := c.reg.lookup(id)
	if !ok {
		return id
	}
	return c.reg.idFor(c.assignment[idx])
}

// BestIndex returns the index of the cluster-best member for the read
// ingested at dense index idx.
func (c *Context) BestIndex(idx int32) int32 {
	return c.assignment[idx]
}

// ExemplarIndices returns the set of dense indices that are the
// best-member of some cluster after finalization — the union of
// clusters[*].bestReadIdx, per spec.md §4.6.
func (c *Context) ExemplarIndices() map[int32]struct{} {
	out := make(map[int32]struct{}, len(c.clusters))
	for _, st := range c.clusters {
		out[st.bestReadIdx] = struct{}{}
	}
	return out
}

// IndexForOrdinal returns the dense index assigned to the read interned
// under the given ordinal-position identifier, used by the FASTQ driver
// which addresses reads by position rather than FASTQ header id.
func (c *Context) IndexForOrdinal(ordinal int) (int32, bool) {
	return c.reg.lookup(ordinalID(ordinal))
}

// OrdinalForIndex recovers the ordinal pair index a dense read index was
// interned under, the inverse of IndexForOrdinal. It fails if idx was not
// interned through ProcessReadByIndex.
func (c *Context) OrdinalForIndex(idx int32) (int, error) {
	return strconv.Atoi(c.reg.idFor(idx))
}
