package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the application.
// It includes counters for captured leads, notification outcomes and client
// upserts, and histograms for database query and export generation durations.
type Metrics struct {
	LeadsReceived    *prometheus.CounterVec   // Counter for captured leads
	Notifications    *prometheus.CounterVec   // Counter for notification outcomes
	ClientUpserts    prometheus.Counter       // Counter for admin client upserts
	DBQueryDuration  *prometheus.HistogramVec // Histogram for database query durations
	ReportGeneration *prometheus.HistogramVec // Histogram for lead export durations
}

// NewMetrics creates a new Metrics instance with the provided Prometheus Registerer.
//
// Parameters:
//   - reg: A Prometheus Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		LeadsReceived: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "leadgate_leads_received_total",
			Help: "Total number of captured leads",
		}, []string{"client"}), // client: tenant slug
		Notifications: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "leadgate_notifications_total",
			Help: "Outcomes of Telegram lead notifications",
		}, []string{"outcome"}), // outcome: sent, skipped, failed
		ClientUpserts: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "leadgate_client_upserts_total",
			Help: "Total number of client records written via the admin endpoint",
		}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "leadgate_db_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}), // query_type: 'get_client', 'insert_lead', 'upsert_client', 'list_leads'
		ReportGeneration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name: "leadgate_report_generation_duration_seconds",
			Help: "Duration of lead export generation.",
		}, []string{"format"}), // format: xlsx
	}
}
