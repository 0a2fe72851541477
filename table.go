package exthash

import (
	"fmt"

	"go.uber.org/zap"
)

// maxInsertRounds bounds the split/grow loop in Insert. Every round that does
// not store the key raises either the target bucket's local depth or the
// global depth, and both stop at HashMaxBits.
const maxInsertRounds = 2*HashMaxBits + 2

// Table is an extendible hash table mapping byte-string keys to values of
// type V. The zero value is an empty table ready for use.
//
// A Table is not safe for concurrent use.
type Table[V any] struct {
	options

	depth   uint8
	dir     []uint32
	buckets []bucket[V]
	count   int

	splits  uint64
	grows   uint64
	repairs uint64
}

// New returns an empty table configured by opts.
func New[V any](opts ...Option) *Table[V] {
	t := &Table[V]{}
	for _, opt := range opts {
		opt(&t.options)
	}
	return t
}

// SetHashFunc installs fn as the table's hash function. It fails with
// ErrHashFuncLocked once the directory exists. A nil fn restores DefaultHash.
func (t *Table[V]) SetHashFunc(fn HashFunc) error {
	if t.depth != 0 {
		return ErrHashFuncLocked
	}
	t.hash = fn
	return nil
}

// Len returns the number of keys stored.
func (t *Table[V]) Len() int {
	return t.count
}

// Depth returns the global depth; the directory has 2^Depth slots.
func (t *Table[V]) Depth() int {
	return int(t.depth)
}

func (t *Table[V]) slot(key []byte) uint32 {
	return t.hashFunc()(key, uint(t.depth)) & uint32(len(t.dir)-1)
}

func (t *Table[V]) add(b *bucket[V], key []byte, value V) {
	k := cloneKey(key)
	t.retain(k)
	b.entries = append(b.entries, entry[V]{key: k, value: value})
	t.count++
}

// Insert stores value under key, replacing any value already stored for it.
func (t *Table[V]) Insert(key []byte, value V) {
	for round := 0; round < maxInsertRounds; round++ {
		if t.depth == 0 {
			t.grow()
		}

		h := t.slot(key)
		b := &t.buckets[t.dir[h]]
		if b.empty() {
			t.add(b, key, value)
			return
		}
		if i := b.find(key); i >= 0 {
			b.entries[i].value = value
			return
		}

		switch {
		case t.depth == HashMaxBits:
			t.add(b, key, value)
			return
		case b.depth < t.depth:
			if !t.split(h) {
				t.repair(h)
			}
		default:
			t.grow()
		}
	}
	panic(fmt.Sprintf("exthash: insert did not settle after %d rounds (depth %d)", maxInsertRounds, t.depth))
}

// repair handles a split whose slot and sibling slot name different buckets,
// which the sharing invariant rules out. Growing the directory is always
// safe and moves the insert toward the overflow ceiling, so termination holds
// either way.
func (t *Table[V]) repair(h uint32) {
	t.repairs++
	local := t.buckets[t.dir[h]].depth
	t.log().Warn("bucket sharing inconsistent, growing directory",
		zap.Uint32("slot", h),
		zap.Uint32("sibling", h^1<<local),
		zap.Uint8("local_depth", local),
		zap.Int("global_depth", int(t.depth)))
	t.grow()
}

// Get returns the value stored under key.
func (t *Table[V]) Get(key []byte) (V, bool) {
	var zero V
	if t.depth == 0 {
		return zero, false
	}
	b := &t.buckets[t.dir[t.slot(key)]]
	if i := b.find(key); i >= 0 {
		return b.entries[i].value, true
	}
	return zero, false
}

// Remove deletes key. Removing an absent key does nothing. The bucket itself
// stays allocated since other slots may still reference it.
func (t *Table[V]) Remove(key []byte) {
	if t.depth == 0 {
		return
	}
	b := &t.buckets[t.dir[t.slot(key)]]
	i := b.find(key)
	if i < 0 {
		return
	}
	t.release(b.entries[i].key)
	b.unlink(i)
	t.count--
}

// Destroy releases every key copy and returns the table to its zero state.
// The hash function, logger and tracker stay installed.
func (t *Table[V]) Destroy() {
	for s := range t.dir {
		if !t.owner(s) {
			continue
		}
		for _, e := range t.buckets[t.dir[s]].entries {
			t.release(e.key)
		}
	}
	t.dir = nil
	t.buckets = nil
	t.depth = 0
	t.count = 0
	t.splits, t.grows, t.repairs = 0, 0, 0
}

// Range calls fn for every key and value until fn returns false. The key
// slice is owned by the table and must not be modified or retained.
func (t *Table[V]) Range(fn func(key []byte, value V) bool) {
	for s := range t.dir {
		if !t.owner(s) {
			continue
		}
		for _, e := range t.buckets[t.dir[s]].entries {
			if !fn(e.key, e.value) {
				return
			}
		}
	}
}
