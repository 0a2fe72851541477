package exthash

import "go.uber.org/zap"

// grow doubles the directory. The new upper half aliases the lower half
// slot for slot, which keeps every existing bucket's sharing intact.
func (t *Table[V]) grow() {
	t.grows++
	if t.depth == 0 {
		t.buckets = append(t.buckets[:0], bucket[V]{depth: 1}, bucket[V]{depth: 1})
		t.dir = []uint32{0, 1}
		t.depth = 1
		t.log().Debug("directory allocated", zap.Int("depth", 1))
		return
	}

	n := len(t.dir)
	dir := make([]uint32, 2*n)
	copy(dir, t.dir)
	copy(dir[n:], t.dir)
	t.dir = dir
	t.depth++
	t.log().Debug("directory grown",
		zap.Int("depth", int(t.depth)),
		zap.Int("buckets", len(t.buckets)))
}

// split divides the bucket addressed by slot h, whose local depth must be
// below the global depth. It reports false when h and its sibling slot do not
// share a bucket; the caller then grows the directory and retries.
func (t *Table[V]) split(h uint32) bool {
	idx := t.dir[h]
	local := t.buckets[idx].depth
	sibling := h ^ 1<<local
	if t.dir[sibling] != idx {
		return false
	}

	local++
	t.buckets[idx].depth = local
	nb := uint32(len(t.buckets))
	t.buckets = append(t.buckets, bucket[V]{depth: local})

	stride := uint32(1) << local
	mask := stride - 1
	for s := sibling & mask; s < uint32(len(t.dir)); s += stride {
		t.dir[s] = nb
	}

	old, fresh := &t.buckets[idx], &t.buckets[nb]
	if !old.empty() && t.hashFunc()(old.entries[0].key, uint(local))&mask == sibling&mask {
		old.entries, fresh.entries = fresh.entries, old.entries
	}
	t.splits++
	return true
}

// owner reports whether slot s is the lowest slot referencing its bucket.
// Slots sharing a bucket agree on their low local-depth bits, so exactly one
// of them lies below 2^local.
func (t *Table[V]) owner(s int) bool {
	return s < 1<<t.buckets[t.dir[s]].depth
}
