package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface through which the ledger and importer report
// counters
type Recorder interface {
	PlayRecorded()
	ImportInserted(count int)
	ImportDuplicate(count int)
	ImportLineSkipped()
}

// Collector implements Recorder backed by Prometheus counters
type Collector struct {
	playsRecorded      prometheus.Counter
	importInserted     prometheus.Counter
	importDuplicates   prometheus.Counter
	importLinesSkipped prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with the given
// registry
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		playsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "playtrack_plays_recorded_total",
			Help: "Total number of plays recorded directly",
		}),
		importInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "playtrack_import_inserted_total",
			Help: "Total number of plays inserted by log import",
		}),
		importDuplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "playtrack_import_duplicates_total",
			Help: "Total number of already-imported log entries skipped",
		}),
		importLinesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "playtrack_import_lines_skipped_total",
			Help: "Total number of malformed or empty log lines skipped",
		}),
	}

	reg.MustRegister(
		c.playsRecorded,
		c.importInserted,
		c.importDuplicates,
		c.importLinesSkipped,
	)

	return c
}

func (c *Collector) PlayRecorded() {
	c.playsRecorded.Inc()
}

func (c *Collector) ImportInserted(count int) {
	c.importInserted.Add(float64(count))
}

func (c *Collector) ImportDuplicate(count int) {
	c.importDuplicates.Add(float64(count))
}

func (c *Collector) ImportLineSkipped() {
	c.importLinesSkipped.Inc()
}

// Noop is a Recorder that discards everything
type Noop struct{}

func (Noop) PlayRecorded() {}
func (Noop) ImportInserted(int) {}
func (Noop) ImportDuplicate(int) {}
func (Noop) ImportLineSkipped() {}

// Handler returns the HTTP handler for Prometheus scrapes
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
