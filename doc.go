/*
Package exthash provides an in-memory hash table built on extendible hashing.

A Table keeps a directory of 2^d slots, where d is the global depth. Each slot
references a bucket, and several slots may share one bucket. A colliding insert
splits only the bucket involved. When that bucket already uses every
directory bit, the directory doubles. The table is never rehashed as a whole,
so growth pauses stay short and predictable.

Basic usage:

	import "github.com/theflywheel/exthash"

	var t exthash.Table[string] // the zero value is ready to use

	t.Insert([]byte("alpha"), "1")
	t.Insert([]byte("beta"), "2")

	if v, ok := t.Get([]byte("alpha")); ok {
		fmt.Println("alpha =", v)
	}

	t.Remove([]byte("alpha"))
	t.Destroy() // drop everything, the table can be reused

Features:

  - Byte-string keys, copied and owned by the table
  - Values of any type, never inspected or released by the table
  - Pluggable hash function (DefaultHash, XXHash, FNVHash or your own),
    installable before the first insert
  - Structured logging of directory growth and splits through zap
  - Invariant checking (Check) and shape statistics (Stats)

Implementation Details:

Buckets live in an arena and directory slots store arena indices. A bucket
with local depth l is referenced by exactly 2^(d-l) slots, all agreeing on
their low l bits. The lowest of those slots owns the bucket for iteration
and release.

Insert splits a full bucket while its local depth is below the global depth.
Otherwise it doubles the directory, then retries. Each retry raises a local
or the global depth, so the loop is bounded. Once the global depth reaches
HashMaxBits, the low hash bits can no longer tell colliding keys apart, and
they are chained in the bucket instead.

A Table is not safe for concurrent use; guard it with a lock if it is shared.
*/
package exthash
