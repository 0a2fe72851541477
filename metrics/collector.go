// Package metrics exposes exthash table statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/theflywheel/exthash"
)

// Collector turns a table's Stats into Prometheus metrics on every scrape.
// Tables are not safe for concurrent use, so the stats function is expected
// to take whatever lock the caller guards its table with.
type Collector struct {
	stats func() exthash.Stats

	globalDepth  *prometheus.Desc
	buckets      *prometheus.Desc
	entries      *prometheus.Desc
	overflow     *prometheus.Desc
	longestChain *prometheus.Desc
	splits       *prometheus.Desc
	grows        *prometheus.Desc
	repairs      *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a collector for one table. The table name is attached
// to every metric as the "table" label.
func NewCollector(namespace, table string, stats func() exthash.Stats) *Collector {
	labels := prometheus.Labels{"table": table}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "exthash", name), help, nil, labels)
	}
	return &Collector{
		stats:        stats,
		globalDepth:  desc("global_depth", "Number of hash bits addressing the directory."),
		buckets:      desc("buckets", "Number of distinct buckets."),
		entries:      desc("entries", "Number of stored keys."),
		overflow:     desc("overflow_entries", "Number of keys held in overflow chains."),
		longestChain: desc("longest_chain", "Length of the longest bucket chain."),
		splits:       desc("splits_total", "Total bucket splits since the table was last destroyed."),
		grows:        desc("grows_total", "Total directory doublings since the table was last destroyed."),
		repairs:      desc("repairs_total", "Total sharing repairs since the table was last destroyed."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.globalDepth
	ch <- c.buckets
	ch <- c.entries
	ch <- c.overflow
	ch <- c.longestChain
	ch <- c.splits
	ch <- c.grows
	ch <- c.repairs
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	st := c.stats()
	gauge := func(d *prometheus.Desc, v int) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, float64(v))
	}
	counter := func(d *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	gauge(c.globalDepth, st.GlobalDepth)
	gauge(c.buckets, st.Buckets)
	gauge(c.entries, st.Entries)
	gauge(c.overflow, st.OverflowEntries)
	gauge(c.longestChain, st.LongestChain)
	counter(c.splits, st.Splits)
	counter(c.grows, st.Grows)
	counter(c.repairs, st.Repairs)
}
