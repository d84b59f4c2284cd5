package dedup

import (
	"blainsmith.com/go/seahash"
)

// registryShards is the number of shards the ID registry's string->index
// map is split into, keyed by seahash.Sum64(id) the way
// encoding/bamprovider's concurrentMap shards by record name.
const registryShards = 64

// registry is a bijective mapping between external identifier strings and
// dense, monotonically-assigned 0-based indices. Indices are assigned in
// first-seen order; re-interning an existing id returns the same index.
type registry struct {
	shards [registryShards]map[string]int32
	ids    []string // index -> id, in assignment order
}

func newRegistry() *registry {
	r := &registry{}
	for i := range r.shards {
		r.shards[i] = make(map[string]int32)
	}
	return r
}

func (r *registry) shardFor(id string) map[string]int32 {
	h := seahash.Sum64([]byte(id))
	return r.shards[h%registryShards]
}

// intern returns the dense index for id, assigning a new one if id has not
// been seen before.
func (r *registry) intern(id string) int32 {
	shard := r.shardFor(id)
	if idx, ok := shard[id]; ok {
		return idx
	}
	idx := int32(len(r.ids))
	shard[id] = idx
	r.ids = append(r.ids, id)
	return idx
}

// lookup returns the index previously assigned to id, if any.
func (r *registry) lookup(id string) (int32, bool) {
	idx, ok := r.shardFor(id)[id]
	return idx, ok
}

// idFor returns the external identifier for a dense index.
func (r *registry) idFor(idx int32) string {
	return r.ids[idx]
}

// len returns the number of distinct ids interned so far.
func (r *registry) len() int {
	return len(r.ids)
}
