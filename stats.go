package exthash

import (
	"bytes"

	"github.com/cockroachdb/errors"
)

// Stats summarizes the shape of a table. Counters cover the period since
// the table was created or last destroyed.
type Stats struct {
	GlobalDepth     int
	Slots           int
	Buckets         int
	Entries         int
	OverflowEntries int
	LongestChain    int

	Splits  uint64
	Grows   uint64
	Repairs uint64
}

// Stats returns a snapshot of the table's shape and counters.
func (t *Table[V]) Stats() Stats {
	st := Stats{
		GlobalDepth: int(t.depth),
		Slots:       len(t.dir),
		Entries:     t.count,
		Splits:      t.splits,
		Grows:       t.grows,
		Repairs:     t.repairs,
	}
	for s := range t.dir {
		if !t.owner(s) {
			continue
		}
		n := len(t.buckets[t.dir[s]].entries)
		st.Buckets++
		if n > 1 {
			st.OverflowEntries += n - 1
		}
		if n > st.LongestChain {
			st.LongestChain = n
		}
	}
	return st
}

// Check verifies the directory and bucket invariants and returns the first
// violation found, marked with ErrCorrupted.
func (t *Table[V]) Check() error {
	if t.depth > HashMaxBits {
		return errors.Wrapf(ErrCorrupted, "global depth %d exceeds %d", t.depth, HashMaxBits)
	}
	if t.depth == 0 {
		if len(t.dir) != 0 || len(t.buckets) != 0 || t.count != 0 {
			return errors.Wrapf(ErrCorrupted, "unallocated table holds %d slots, %d buckets, %d keys",
				len(t.dir), len(t.buckets), t.count)
		}
		return nil
	}
	if len(t.dir) != 1<<t.depth {
		return errors.Wrapf(ErrCorrupted, "directory has %d slots at depth %d", len(t.dir), t.depth)
	}

	refs := make([]int, len(t.buckets))
	for s, idx := range t.dir {
		if int(idx) >= len(t.buckets) {
			return errors.Wrapf(ErrCorrupted, "slot %b references bucket %d of %d", s, idx, len(t.buckets))
		}
		refs[idx]++
		local := t.buckets[idx].depth
		if local > t.depth {
			return errors.Wrapf(ErrCorrupted, "bucket %d local depth %d exceeds global depth %d", idx, local, t.depth)
		}
		mask := 1<<local - 1
		if first := s & mask; t.dir[first] != idx {
			return errors.Wrapf(ErrCorrupted, "slot %b and slot %b disagree on bucket with local depth %d", s, first, local)
		}
	}

	entries := 0
	for idx := range t.buckets {
		b := &t.buckets[idx]
		if want := 1 << (t.depth - b.depth); refs[idx] != want {
			return errors.Wrapf(ErrCorrupted, "bucket %d referenced by %d slots, want %d", idx, refs[idx], want)
		}
		for i := range b.entries {
			key := b.entries[i].key
			for j := i + 1; j < len(b.entries); j++ {
				if bytes.Equal(key, b.entries[j].key) {
					return errors.Wrapf(ErrCorrupted, "bucket %d holds key %q twice", idx, key)
				}
			}
			if got := t.dir[t.slot(key)]; got != uint32(idx) {
				return errors.Wrapf(ErrCorrupted, "key %q stored in bucket %d but addressed to bucket %d", key, idx, got)
			}
		}
		entries += len(b.entries)
	}
	if entries != t.count {
		return errors.Wrapf(ErrCorrupted, "%d entries stored, count is %d", entries, t.count)
	}
	return nil
}
