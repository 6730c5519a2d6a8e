package metrics

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service counters. All methods are safe on a nil receiver so callers can
// run without metrics.
type Metrics struct {
	FramesSampled        atomic.Uint64
	FramesSkipped        atomic.Uint64
	DetectionsEmitted    atomic.Uint64
	SuspiciousDetections atomic.Uint64
	AlertsSent           atomic.Uint64
	AlertsFailed         atomic.Uint64
	UploadsProcessed     atomic.Uint64
	UploadsFailed        atomic.Uint64

	ActiveMonitors atomic.Int64

	registry *prometheus.Registry
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}
	m.registerPrometheusMetrics()
	return m
}

func (m *Metrics) counter(name, help string, v *atomic.Uint64) prometheus.Collector {
	return prometheus.NewCounterFunc(
		prometheus.CounterOpts{Namespace: "security", Name: name, Help: help},
		func() float64 { return float64(v.Load()) },
	)
}

func (m *Metrics) registerPrometheusMetrics() {
	m.registry.MustRegister(
		m.counter("frames_sampled_total", "Frames sampled by live monitors", &m.FramesSampled),
		m.counter("frames_skipped_total", "Monitor ticks skipped by rate limit or overlap", &m.FramesSkipped),
		m.counter("detections_emitted_total", "Synthetic detections emitted", &m.DetectionsEmitted),
		m.counter("detections_suspicious_total", "Emitted detections labelled suspicious", &m.SuspiciousDetections),
		m.counter("alerts_sent_total", "Alert notifications delivered", &m.AlertsSent),
		m.counter("alerts_failed_total", "Alert notifications that failed", &m.AlertsFailed),
		m.counter("uploads_processed_total", "Uploads analyzed successfully", &m.UploadsProcessed),
		m.counter("uploads_failed_total", "Uploads rejected or failed", &m.UploadsFailed),
	)

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "security",
			Name:      "active_monitors",
			Help:      "Cameras with live detection running",
		},
		func() float64 { return float64(m.ActiveMonitors.Load()) },
	))
}

func (m *Metrics) ObserveTick(processed bool) {
	if m == nil {
		return
	}
	if processed {
		m.FramesSampled.Add(1)
	} else {
		m.FramesSkipped.Add(1)
	}
}

func (m *Metrics) ObserveDetections(total, suspicious int) {
	if m == nil {
		return
	}
	m.DetectionsEmitted.Add(uint64(total))
	m.SuspiciousDetections.Add(uint64(suspicious))
}

func (m *Metrics) ObserveAlert(sent bool) {
	if m == nil {
		return
	}
	if sent {
		m.AlertsSent.Add(1)
	} else {
		m.AlertsFailed.Add(1)
	}
}

func (m *Metrics) ObserveUpload(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.UploadsProcessed.Add(1)
	} else {
		m.UploadsFailed.Add(1)
	}
}

func (m *Metrics) SetActiveMonitors(n int) {
	if m == nil {
		return
	}
	m.ActiveMonitors.Store(int64(n))
}

// Handler returns the Prometheus HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
