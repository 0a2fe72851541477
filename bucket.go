package exthash

import "bytes"

type entry[V any] struct {
	key   []byte
	value V
}

// bucket holds at most one primary entry plus an overflow chain. Chains only
// grow once the directory has reached HashMaxBits; before that a collision
// always splits the bucket or grows the directory instead.
type bucket[V any] struct {
	depth   uint8
	entries []entry[V]
}

func (b *bucket[V]) empty() bool {
	return len(b.entries) == 0
}

// find returns the chain position of key, or -1.
func (b *bucket[V]) find(key []byte) int {
	for i := range b.entries {
		if bytes.Equal(b.entries[i].key, key) {
			return i
		}
	}
	return -1
}

// unlink drops the entry at position i. A removed head is replaced by its
// successor, so the chain order of the remaining entries is preserved.
func (b *bucket[V]) unlink(i int) {
	last := len(b.entries) - 1
	copy(b.entries[i:], b.entries[i+1:])
	b.entries[last] = entry[V]{}
	b.entries = b.entries[:last]
}

func cloneKey(key []byte) []byte {
	k := make([]byte, len(key))
	copy(k, key)
	return k
}
