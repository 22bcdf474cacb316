package translist

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Snapshot is a point-in-time read of a List's monotonic counters.
type Snapshot struct {
	Commits    uint64
	Aborts     uint64
	Inserts    uint64
	InsertsNew uint64
	Deletes    uint64
	DeletesNew uint64
	Finds      uint64
}

// Metrics holds the monotonic atomic counters spec §6 requires:
// commit/abort outcomes always, per-op breakdowns always available (the
// original gates these behind an ASSERT_CODE compile-time macro; Go has no
// macros, so the equivalent "pay only if you read it" property instead
// comes from these being Adds on an already-hot path, which is cheap
// enough to leave on unconditionally).
type Metrics struct {
	commits    atomic.Uint64
	aborts     atomic.Uint64
	insTotal   atomic.Uint64
	insNew     atomic.Uint64
	delTotal   atomic.Uint64
	delNew     atomic.Uint64
	fndTotal   atomic.Uint64
}

func newMetrics() *Metrics { return &Metrics{} }

func (m *Metrics) commit()    { m.commits.Add(1) }
func (m *Metrics) abort()     { m.aborts.Add(1) }
func (m *Metrics) insert()    { m.insTotal.Add(1) }
func (m *Metrics) insertNew() { m.insTotal.Add(1); m.insNew.Add(1) }
func (m *Metrics) delete()    { m.delTotal.Add(1) }
func (m *Metrics) deleteNew() { m.delTotal.Add(1); m.delNew.Add(1) }
func (m *Metrics) find()      { m.fndTotal.Add(1) }

// Snapshot reads every counter. It is not a single atomic transaction
// across fields — callers comparing two snapshots should treat them as
// approximate, the same way the original's printf-at-exit summary is.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		Commits:    m.commits.Load(),
		Aborts:     m.aborts.Load(),
		Inserts:    m.insTotal.Load(),
		InsertsNew: m.insNew.Load(),
		Deletes:    m.delTotal.Load(),
		DeletesNew: m.delNew.Load(),
		Finds:      m.fndTotal.Load(),
	}
}

// Collector adapts a List's Metrics to prometheus.Collector so a host
// process can fold transaction counters into its own registry without the
// translist package importing a metrics server itself.
type Collector struct {
	m          *Metrics
	commitDesc *prometheus.Desc
	abortDesc  *prometheus.Desc
	opDesc     *prometheus.Desc
}

// NewCollector builds a Collector over m. Pass the result to
// prometheus.Registry.MustRegister.
func NewCollector(m *Metrics) *Collector {
	return &Collector{
		m: m,
		commitDesc: prometheus.NewDesc(
			"translist_commits_total", "Descriptors that committed.", nil, nil,
		),
		abortDesc: prometheus.NewDesc(
			"translist_aborts_total", "Descriptors that aborted.", nil, nil,
		),
		opDesc: prometheus.NewDesc(
			"translist_ops_total", "Operations applied, by type and by whether they created a new node.",
			[]string{"op", "new"}, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.commitDesc
	ch <- c.abortDesc
	ch <- c.opDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.m.Snapshot()
	ch <- prometheus.MustNewConstMetric(c.commitDesc, prometheus.CounterValue, float64(s.Commits))
	ch <- prometheus.MustNewConstMetric(c.abortDesc, prometheus.CounterValue, float64(s.Aborts))
	ch <- prometheus.MustNewConstMetric(c.opDesc, prometheus.CounterValue, float64(s.Inserts-s.InsertsNew), "insert", "false")
	ch <- prometheus.MustNewConstMetric(c.opDesc, prometheus.CounterValue, float64(s.InsertsNew), "insert", "true")
	ch <- prometheus.MustNewConstMetric(c.opDesc, prometheus.CounterValue, float64(s.Deletes-s.DeletesNew), "delete", "false")
	ch <- prometheus.MustNewConstMetric(c.opDesc, prometheus.CounterValue, float64(s.DeletesNew), "delete", "true")
	ch <- prometheus.MustNewConstMetric(c.opDesc, prometheus.CounterValue, float64(s.Finds), "find", "false")
}
