// Package metrics expone colectores Prometheus para facturación e ingesta.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics agrupa los colectores de la aplicación. Implementa billing.Metrics e ingestion.Metrics.
type Metrics struct {
	invoices   *prometheus.CounterVec
	deliveries *prometheus.CounterVec
	rows       *prometheus.CounterVec
	jobs       *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// NewMetrics registra los colectores en registerer. Con nil usa el registerer por defecto una sola vez.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		defaultOnce.Do(func() {
			defaultMetrics = build(prometheus.DefaultRegisterer)
		})
		return defaultMetrics
	}
	return build(registerer)
}

// InvoiceFinalized cuenta facturas finalizadas por módulo.
func (m *Metrics) InvoiceFinalized(module string) {
	if m == nil {
		return
	}
	m.invoices.WithLabelValues(module).Inc()
}

// DeliveryAttempt cuenta envíos al ERP por resultado.
func (m *Metrics) DeliveryAttempt(ok bool) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(strconv.FormatBool(ok)).Inc()
}

// RowProcessed cuenta filas de ingesta por resultado.
func (m *Metrics) RowProcessed(module, outcome string) {
	if m == nil {
		return
	}
	m.rows.WithLabelValues(module, outcome).Inc()
}

// JobFinished registra el estado final y la duración de un job de ingesta.
func (m *Metrics) JobFinished(module, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.jobs.WithLabelValues(module, status).Inc()
	m.duration.WithLabelValues(module).Observe(elapsed.Seconds())
}

func build(registerer prometheus.Registerer) *Metrics {
	invoices := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "logistica_invoices_finalized_total",
		Help: "Facturas finalizadas por módulo.",
	}, []string{"module"})
	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "logistica_sap_deliveries_total",
		Help: "Envíos de XML al ERP por resultado.",
	}, []string{"accepted"})
	rows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "logistica_ingestion_rows_total",
		Help: "Filas de ingesta procesadas por módulo y resultado.",
	}, []string{"module", "outcome"})
	jobs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "logistica_ingestion_jobs_total",
		Help: "Jobs de ingesta terminados por módulo y estado.",
	}, []string{"module", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "logistica_ingestion_job_duration_seconds",
		Help:    "Duración en segundos de los jobs de ingesta.",
		Buckets: prometheus.DefBuckets,
	}, []string{"module"})
	registerer.MustRegister(invoices, deliveries, rows, jobs, duration)
	return &Metrics{invoices: invoices, deliveries: deliveries, rows: rows, jobs: jobs, duration: duration}
}
