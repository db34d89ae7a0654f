// Package metrics counts what fmgr did and exports it as a Prometheus
// node-exporter textfile.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/eykd/fmgr-go/internal/domain"
)

// Recorder implements engine.Observer on a private registry.
type Recorder struct {
	reg *prometheus.Registry

	operations *prometheus.CounterVec
	bytes      *prometheus.CounterVec
	prompts    *prometheus.CounterVec
	batches    *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	lastBatch  prometheus.Gauge
}

// New creates a Recorder with its metrics registered.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fmgr_operations_total",
			Help: "Settled file operations by operation and outcome.",
		}, []string{"op", "outcome"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fmgr_bytes_total",
			Help: "Bytes of file content deleted, copied or moved.",
		}, []string{"op"}),
		prompts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fmgr_prompts_total",
			Help: "Failures put to the user by error kind and decision.",
		}, []string{"kind", "decision"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fmgr_batches_total",
			Help: "Completed batches by operation and result.",
		}, []string{"op", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fmgr_batch_duration_seconds",
			Help:    "Wall time of a batch, prompts included.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"op"}),
		lastBatch: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fmgr_last_batch_timestamp_seconds",
			Help: "Unix time the last batch finished.",
		}),
	}
	r.reg.MustRegister(r.operations, r.bytes, r.prompts, r.batches, r.duration, r.lastBatch)
	return r
}

// Finished counts a settled mutation.
func (r *Recorder) Finished(ev domain.Event) {
	r.operations.WithLabelValues(string(ev.Op), string(ev.Outcome)).Inc()
	if ev.Outcome == domain.OutcomeDone && ev.Bytes > 0 {
		r.bytes.WithLabelValues(string(ev.Op)).Add(float64(ev.Bytes))
	}
}

// Prompted counts an answered prompt.
func (r *Recorder) Prompted(c domain.Conflict, d domain.Decision) {
	r.prompts.WithLabelValues(c.Kind.String(), d.String()).Inc()
}

// BatchDone records the end of a batch.
func (r *Recorder) BatchDone(op domain.Op, aborted bool, elapsed time.Duration, at time.Time) {
	result := "completed"
	if aborted {
		result = "aborted"
	}
	r.batches.WithLabelValues(string(op), result).Inc()
	r.duration.WithLabelValues(string(op)).Observe(elapsed.Seconds())
	r.lastBatch.Set(float64(at.Unix()))
}

// WriteTextfile writes every metric to path atomically, creating its
// directory if needed.
func (r *Recorder) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
