package dedup

import "strconv"

// ordinalID formats a 0-based pair index as the registry key the FASTQ
// driver uses in place of a FASTQ header id (spec.md §4.6: "reads are
// addressed by their ordinal pair index ... the FASTQ identifier string
// is ignored for clustering purposes").
func ordinalID(ordinal int) string {
	return strconv.Itoa(ordinal)
}

// ProcessReadByIndex is ProcessRead addressed by ordinal pair position,
// for the FASTQ driver.
func (c *Context) ProcessReadByIndex(ordinal int, fwdSeq, revSeq, fwdQual, revQual []byte) int32 {
	return c.ProcessRead(ordinalID(ordinal), fwdSeq, revSeq, fwdQual, revQual)
}

// Opts bundles the tunable parameters for a Context: the similarity
// comparator's offset/error budget and the minimizer extractor's
// window shape. Populated once at driver startup, the way
// markduplicates.Opts is populated from flags in cmd/bio-pileup.
type Opts struct {
	Dedup     DedupParams
	Minimizer MinimizerParams
}

// Stats summarizes a Context after finalization: how many reads were
// ingested, how many distinct clusters resulted, and the resulting
// dedup rate. Mirrors the role of markduplicates.Metrics as the thing a
// driver logs after a run.
type Stats struct {
	TotalReads     int
	UniqueClusters int
}

// DedupRate returns the fraction of input reads collapsed away, in
// [0,1]. It is 0 when TotalReads is 0.
func (s Stats) DedupRate() float64 {
	if s.TotalReads == 0 {
		return 0
	}
	return 1.0 - float64(s.UniqueClusters)/float64(s.TotalReads)
}

// state is the Context's lifecycle: Building while reads are being
// ingested, Finalized once Finalize has run. Processing after
// finalization is a caller error, not guarded against (see spec.md
// §4.5: "callers must not process reads post-finalization").
type state int

const (
	building state = iota
	finalized
)

// Context is the streaming dedup engine. It is not safe for concurrent
// use: every ProcessRead call mutates shared state synchronously.
type Context struct {
	opts Opts

	state state

	reg        *registry
	buckets    bucketIndex
	exemplars  map[int32]storedExemplar
	clusters   map[int32]*clusterStats
	assignment map[int32]int32 // read index -> leader index (pre-finalize) or best index (post)

	probes *probeSet
}

// NewContext constructs an empty Context with the given parameters.
func NewContext(opts Opts) *Context {
	return &Context{
		opts:       opts,
		reg:        newRegistry(),
		buckets:    make(bucketIndex),
		exemplars:  make(map[int32]storedExemplar),
		clusters:   make(map[int32]*clusterStats),
		assignment: make(map[int32]int32),
		probes:     newProbeSet(),
	}
}

// qualityScore computes score = 1000*mean(phred) + (len(fwd)+len(rev)),
// per spec.md §4.4. An empty-sequence pair (zero total quality bytes)
// scores 0 rather than dividing by zero.
func qualityScore(fwdQual, revQual []byte, fwdLen, revLen int) float64 {
	total := len(fwdQual) + len(revQual)
	if total == 0 {
		return 0
	}
	var sum int
	for _, c := range fwdQual {
		sum += int(c) - 33
	}
	for _, c := range revQual {
		sum += int(c) - 33
	}
	mean := float64(sum) / float64(total)
	return 1000*mean + float64(fwdLen+revLen)
}

// ProcessRead ingests one read pair, identified by id, and returns the
// dense index assigned to it. See spec.md §4.4 for the full algorithm.
func (c *Context) ProcessRead(id string, fwdSeq, revSeq, fwdQual, revQual []byte) int32 {
	r := c.reg.intern(id)
	score := qualityScore(fwdQual, revQual, len(fwdSeq), len(revSeq))

	fwdMin := extractMinimizers(string(fwdSeq), c.opts.Minimizer)
	revMin := extractMinimizers(string(revSeq), c.opts.Minimizer)
	minimizers := make([]uint64, 0, len(fwdMin)+len(revMin))
	minimizers = append(minimizers, fwdMin...)
	minimizers = append(minimizers, revMin...)

	c.probes.reset()
	var matched int32 = -1
	for _, m := range minimizers {
		for _, leader := range c.buckets[m] {
			if !c.probes.addIfAbsent(leader) {
				continue
			}
			ex := c.exemplars[leader]
			if pairSimilar(fwdSeq, revSeq, ex.fwd, ex.rev, c.opts.Dedup) {
				matched = leader
				break
			}
		}
		if matched != -1 {
			break
		}
	}

	if matched != -1 {
		st := c.clusters[matched]
		st.count++
		if score > st.bestScore {
			st.bestScore = score
			st.bestReadIdx = r
		}
		c.assignment[r] = matched
		return r
	}

	c.clusters[r] = &clusterStats{bestReadIdx: r, bestScore: score, count: 1}
	c.exemplars[r] = storedExemplar{fwd: append([]byte(nil), fwdSeq...), rev: append([]byte(nil), revSeq...)}
	c.buckets.add(dedupMinimizers(minimizers), r)
	c.assignment[r] = r
	return r
}
