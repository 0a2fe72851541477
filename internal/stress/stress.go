// Package stress implements the randomized self-test for exthash tables:
// bulk inserts of random words followed by bulk removes in random order,
// checking after every mutation that Get reflects it.
package stress

import (
	"math/rand"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/theflywheel/exthash"
	"github.com/theflywheel/exthash/metrics"
)

// Report summarizes a finished run.
type Report struct {
	Seed     int64
	Rounds   int
	Inserts  int
	Removes  int
	Checks   int
	MaxDepth int
	Elapsed  time.Duration
}

type driver struct {
	cfg    Config
	logger *zap.Logger
	rng    *rand.Rand
	tbl    *exthash.Table[string]
	report Report
	ops    int
}

// Run executes cfg.Rounds rounds against one table, destroys it and checks
// that every key copy the table made was released exactly once.
func Run(cfg Config, logger *zap.Logger) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	hash, err := exthash.HashByName(cfg.Hash)
	if err != nil {
		return Report{}, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	registry := newKeyRegistry()
	d := &driver{
		cfg:    cfg,
		logger: logger,
		rng:    rand.New(rand.NewSource(seed)),
		tbl: exthash.New[string](
			exthash.WithHashFunc(hash),
			exthash.WithLogger(logger.Named("table")),
			exthash.WithTracker(registry),
		),
		report: Report{Seed: seed},
	}

	promReg := prometheus.NewRegistry()
	if err := promReg.Register(metrics.NewCollector("stress", cfg.Hash, d.tbl.Stats)); err != nil {
		return Report{}, errors.Wrap(err, "register table metrics")
	}

	logger.Info("stress run started",
		zap.Int64("seed", seed),
		zap.Int("rounds", cfg.Rounds),
		zap.Int("keys", cfg.Keys),
		zap.String("hash", cfg.Hash))

	start := time.Now()
	for round := 1; round <= cfg.Rounds; round++ {
		if err := d.round(round); err != nil {
			return d.report, errors.Wrapf(err, "seed %d round %d", seed, round)
		}
		d.report.Rounds++
	}
	logMetrics(logger, promReg)

	d.tbl.Destroy()
	if _, ok := d.tbl.Get([]byte("any")); ok || d.tbl.Len() != 0 {
		return d.report, errors.New("table not empty after destroy")
	}
	if err := registry.verifyEmpty(); err != nil {
		return d.report, err
	}
	d.report.Elapsed = time.Since(start)

	logger.Info("stress run finished",
		zap.Int("inserts", d.report.Inserts),
		zap.Int("removes", d.report.Removes),
		zap.Int("checks", d.report.Checks),
		zap.Int("max_depth", d.report.MaxDepth),
		zap.Duration("elapsed", d.report.Elapsed))
	return d.report, nil
}

func (d *driver) round(round int) error {
	model := make(map[string]string, d.cfg.Keys)
	order := make([]string, 0, d.cfg.Keys)

	for i := 0; i < d.cfg.Keys; i++ {
		k, v := d.word(d.cfg.KeyLen), d.word(d.cfg.ValueLen)
		if _, dup := model[k]; !dup {
			order = append(order, k)
		}
		model[k] = v

		d.tbl.Insert([]byte(k), v)
		d.report.Inserts++
		if got, ok := d.tbl.Get([]byte(k)); !ok || got != v {
			return errors.Newf("insert %d: get(%q) = %q, %t; want %q", i, k, got, ok, v)
		}
		if err := d.mutated(); err != nil {
			return errors.Wrapf(err, "insert %d", i)
		}
	}
	if d.tbl.Len() != len(model) {
		return errors.Newf("after inserts: len = %d, want %d", d.tbl.Len(), len(model))
	}
	if err := d.check(); err != nil {
		return errors.Wrap(err, "after inserts")
	}

	st := d.tbl.Stats()
	if st.GlobalDepth > d.report.MaxDepth {
		d.report.MaxDepth = st.GlobalDepth
	}
	d.logger.Info("inserts done",
		zap.Int("round", round),
		zap.Int("keys", st.Entries),
		zap.Int("global_depth", st.GlobalDepth),
		zap.Int("buckets", st.Buckets),
		zap.Int("overflow", st.OverflowEntries),
		zap.Int("longest_chain", st.LongestChain))

	d.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	for i, k := range order {
		d.tbl.Remove([]byte(k))
		d.report.Removes++
		if got, ok := d.tbl.Get([]byte(k)); ok {
			return errors.Newf("remove %d: get(%q) = %q after remove", i, k, got)
		}
		if rest := order[i+1:]; len(rest) > 0 {
			s := rest[d.rng.Intn(len(rest))]
			if got, ok := d.tbl.Get([]byte(s)); !ok || got != model[s] {
				return errors.Newf("remove %d: survivor get(%q) = %q, %t; want %q", i, s, got, ok, model[s])
			}
		}
		if err := d.mutated(); err != nil {
			return errors.Wrapf(err, "remove %d", i)
		}
	}
	if d.tbl.Len() != 0 {
		return errors.Newf("after removes: len = %d, want 0", d.tbl.Len())
	}
	return errors.Wrap(d.check(), "after removes")
}

func (d *driver) mutated() error {
	d.ops++
	if d.cfg.CheckEvery > 0 && d.ops%d.cfg.CheckEvery == 0 {
		return d.check()
	}
	return nil
}

func (d *driver) check() error {
	d.report.Checks++
	return d.tbl.Check()
}

// word returns n random upper-case letters.
func (d *driver) word(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('A' + d.rng.Intn(26))
	}
	return string(b)
}

func logMetrics(logger *zap.Logger, reg *prometheus.Registry) {
	families, err := reg.Gather()
	if err != nil {
		logger.Warn("gather table metrics", zap.Error(err))
		return
	}
	fields := make([]zap.Field, 0, len(families))
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			v := m.GetGauge().GetValue()
			if c := m.GetCounter(); c != nil {
				v = c.GetValue()
			}
			fields = append(fields, zap.Float64(mf.GetName(), v))
		}
	}
	logger.Info("table metrics", fields...)
}
