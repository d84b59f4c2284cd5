package dedup

import (
	farm "github.com/dgryski/go-farm"
)

// probeSet is a small, per-read scratch set of candidate leader indices
// already similarity-tested for the read currently being processed. It is
// a vanilla open-addressed hash set over a power-of-two table that doubles
// once half full, sized and rehashed the way fusion/kmer_index.go's linear-probing kmer table is,
// but without that table's huge-page/unsafe machinery: this set lives for
// the duration of a single process_read call and is discarded afterward,
// so there is no case for persistent, page-aligned storage.
type probeSet struct {
	slots []int32 // empty slot holds probeSetEmpty
	mask  uint64
	n     int // number of occupied slots
}

const probeSetEmpty = int32(-1)

func newProbeSet() *probeSet {
	p := &probeSet{}
	p.reset()
	return p
}

// reset clears the set for reuse by the next read, avoiding a fresh
// allocation per call.
func (p *probeSet) reset() {
	const initialSize = 16
	if p.slots == nil {
		p.slots = make([]int32, initialSize)
		p.mask = uint64(initialSize - 1)
	}
	for i := range p.slots {
		p.slots[i] = probeSetEmpty
	}
	p.n = 0
}

func hashLeader(leader int32) uint64 {
	return farm.Hash64WithSeed(nil, uint64(leader))
}

// addIfAbsent inserts leader into the set if not already present, growing
// the table first if it is getting full. It returns true if leader was
// newly inserted (i.e. had not been probed yet this call).
func (p *probeSet) addIfAbsent(leader int32) bool {
	if p.n*2 >= len(p.slots) {
		p.grow()
	}
	idx := hashLeader(leader) & p.mask
	for {
		cur := p.slots[idx]
		if cur == probeSetEmpty {
			p.slots[idx] = leader
			p.n++
			return true
		}
		if cur == leader {
			return false
		}
		idx = (idx + 1) & p.mask
	}
}

func (p *probeSet) grow() {
	old := p.slots
	newSize := len(old) * 2
	p.slots = make([]int32, newSize)
	p.mask = uint64(newSize - 1)
	for i := range p.slots {
		p.slots[i] = probeSetEmpty
	}
	for _, v := range old {
		if v == probeSetEmpty {
			continue
		}
		idx := hashLeader(v) & p.mask
		for p.slots[idx] != probeSetEmpty {
			idx = (idx + 1) & p.mask
		}
		p.slots[idx] = v
	}
}
