package stress

import "github.com/cockroachdb/errors"

// keyRegistry is the driver's allocation ledger. It is installed as the
// table's Tracker and records every key copy the table holds.
type keyRegistry struct {
	live     map[string]int
	retained int
	released int
	// first problem seen; a release of an untracked key is reported once
	err error
}

func newKeyRegistry() *keyRegistry {
	return &keyRegistry{live: make(map[string]int)}
}

func (r *keyRegistry) Retain(key []byte) {
	r.live[string(key)]++
	r.retained++
}

func (r *keyRegistry) Release(key []byte) {
	k := string(key)
	n := r.live[k]
	if n == 0 {
		if r.err == nil {
			r.err = errors.Newf("key %q released without a live copy", k)
		}
		return
	}
	if n == 1 {
		delete(r.live, k)
	} else {
		r.live[k] = n - 1
	}
	r.released++
}

// verifyEmpty reports leaked copies and stray releases.
func (r *keyRegistry) verifyEmpty() error {
	if r.err != nil {
		return r.err
	}
	if len(r.live) != 0 {
		return errors.Newf("%d key copies still live after destroy (%d retained, %d released)",
			len(r.live), r.retained, r.released)
	}
	return nil
}
