package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for the dashboard service.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	LoginAttempts   *prometheus.CounterVec
	UsersReconciled prometheus.Counter
	RecordsRejected prometheus.Counter
}

// New registers collectors on reg. Pass prometheus.DefaultRegisterer in production
// and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pctracer_http_request_duration_seconds",
			Help:    "Latency of HTTP requests by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pctracer_login_attempts_total",
			Help: "Login attempts by outcome",
		}, []string{"result"}),
		UsersReconciled: factory.NewCounter(prometheus.CounterOpts{
			Name: "pctracer_users_reconciled_total",
			Help: "Usernames upserted by the active-users reconciliation",
		}),
		RecordsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "pctracer_activity_records_rejected_total",
			Help: "Activity documents skipped because they failed validation",
		}),
	}
}

// Login outcomes
const (
	LoginSuccess       = "success"
	LoginUnknownEmail  = "unknown_email"
	LoginWrongPassword = "wrong_password"
	LoginError         = "error"
)

func (m *Metrics) ObserveLogin(result string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveRequest(route, method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route, method, status).Observe(seconds)
}

func (m *Metrics) AddReconciled(n int) {
	if m == nil {
		return
	}
	m.UsersReconciled.Add(float64(n))
}

func (m *Metrics) AddRejected(n int) {
	if m == nil {
		return
	}
	m.RecordsRejected.Add(float64(n))
}
