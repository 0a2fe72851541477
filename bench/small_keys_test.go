// Package bench provides scale benchmarks for exthash tables.
//
// This file contains small-scale benchmarks with ten thousand numeric keys,
// giving a baseline. It measures:
//   - Insertion performance (overall and per batch)
//   - Random lookup performance
//   - Sequential lookup performance
//   - Memory efficiency (heap bytes per key-value pair)
package bench

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/theflywheel/exthash"
)

// BenchmarkTenThousandKeys inserts ten thousand 8-byte numeric keys, then
// looks up a pseudo-random sample and finally every key in order.
//
// Ten thousand keys exceed the 2^HashMaxBits directory, so the run also covers
// overflow chaining at the depth ceiling.
func BenchmarkTenThousandKeys(b *testing.B) {
	b.N = 1
	b.ResetTimer()
	b.StopTimer()

	numKeys := 10_000
	progressInterval := 1_000

	metrics := BenchmarkMetrics{
		Name:       "TenThousandKeys",
		Category:   "scale",
		Operations: numKeys,
		Metrics:    make(map[string]float64),
	}

	baseHeap := heapAlloc()
	var tbl exthash.Table[uint64]

	b.Logf("Starting insertion of %d keys...", numKeys)
	b.StartTimer()
	writeStart := time.Now()

	key := make([]byte, 8)
	for i := 0; i < numKeys; i++ {
		binary.BigEndian.PutUint64(key, uint64(i))
		tbl.Insert(key, uint64(i))

		if (i+1)%progressInterval == 0 {
			b.StopTimer()
			rate := float64(i+1) / time.Since(writeStart).Seconds()
			b.Logf("Inserted %d keys... (%.2f keys/sec)", i+1, rate)
			b.StartTimer()
		}
	}

	b.StopTimer()
	writeTime := time.Since(writeStart)
	insertionRate := float64(numKeys) / writeTime.Seconds()
	b.Logf("Time to insert %d keys: %v (%.2f keys/sec)", numKeys, writeTime, insertionRate)
	metrics.Metrics["insertion_rate"] = insertionRate

	randomSampleSize := 1_000
	b.Logf("Verifying random sample of %d keys...", randomSampleSize)
	b.StartTimer()
	randomReadStart := time.Now()

	for i := 0; i < randomSampleSize; i++ {
		keyID := (i*31 + 17) % numKeys
		binary.BigEndian.PutUint64(key, uint64(keyID))

		val, found := tbl.Get(key)
		if !found {
			b.Fatalf("Random key %d not found", keyID)
		}
		if val != uint64(keyID) {
			b.Fatalf("Value mismatch for random key %d: got %d", keyID, val)
		}
	}

	b.StopTimer()
	randomReadTime := time.Since(randomReadStart)
	randomLookupRate := float64(randomSampleSize) / randomReadTime.Seconds()
	b.Logf("Time to perform %d random lookups: %v (%.2f lookups/sec)",
		randomSampleSize, randomReadTime, randomLookupRate)
	metrics.Metrics["random_lookup_rate"] = randomLookupRate

	b.Logf("Verifying all %d keys sequentially...", numKeys)
	b.StartTimer()
	seqReadStart := time.Now()

	for i := 0; i < numKeys; i++ {
		binary.BigEndian.PutUint64(key, uint64(i))
		val, found := tbl.Get(key)
		if !found {
			b.Fatalf("Key %d not found", i)
		}
		if val != uint64(i) {
			b.Fatalf("Value mismatch for key %d: got %d", i, val)
		}
	}

	b.StopTimer()
	seqReadTime := time.Since(seqReadStart)
	seqLookupRate := float64(numKeys) / seqReadTime.Seconds()
	b.Logf("Time to verify all %d keys: %v (%.2f keys/sec)", numKeys, seqReadTime, seqLookupRate)
	metrics.Metrics["sequential_lookup_rate"] = seqLookupRate

	if err := tbl.Check(); err != nil {
		b.Fatalf("Table invariants broken: %v", err)
	}

	heapBytes := float64(int64(heapAlloc()) - int64(baseHeap))
	bytesPerKey := heapBytes / float64(numKeys)
	b.Logf("Average bytes per key-value pair: %.2f bytes", bytesPerKey)

	st := tbl.Stats()
	b.Logf("Global depth %d, %d buckets, %d overflow entries, longest chain %d",
		st.GlobalDepth, st.Buckets, st.OverflowEntries, st.LongestChain)

	metrics.Metrics["heap_mb"] = heapBytes / (1024 * 1024)
	metrics.Metrics["bytes_per_key"] = bytesPerKey
	recordShape(&metrics, st)
	metrics.NsPerOp = float64(writeTime.Nanoseconds() + randomReadTime.Nanoseconds() + seqReadTime.Nanoseconds())
	metrics.BytesPerOp = int(heapBytes)

	if err := saveBenchmarkResult(metrics, "latest.json"); err != nil {
		b.Logf("Failed to save benchmark result to latest.json: %v", err)
	}

	b.Logf("Ten thousand keys benchmark completed successfully")
}
