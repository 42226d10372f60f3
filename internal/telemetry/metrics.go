package telemetry

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Tenant lookup outcomes
const (
	OutcomeOK             = "ok"
	OutcomeMissingInput   = "missing_input"
	OutcomeCacheHit       = "cache_hit"
	OutcomeNon2xx         = "non_2xx"
	OutcomeTransportError = "transport_error"
	OutcomeDecodeError    = "decode_error"
)

// SSO login results
const (
	SSOResultOK          = "ok"
	SSOResultRejected    = "rejected"
	SSOResultUnavailable = "unavailable"
)

// Metrics holds the Prometheus collectors exposed on /metrics
type Metrics struct {
	registry *prometheus.Registry

	TenantLookupsTotal   *prometheus.CounterVec
	TenantLookupDuration prometheus.Histogram
	SSOLoginsTotal       *prometheus.CounterVec
	DocCardLookupsTotal  *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors on registry.
// A nil registry gets a fresh one.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	m := &Metrics{
		registry: registry,
		TenantLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenantpanel_tenant_lookups_total",
				Help: "Tenant name resolutions by outcome",
			},
			[]string{"outcome"},
		),
		TenantLookupDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tenantpanel_tenant_lookup_duration_seconds",
				Help:    "Latency of tenant API calls",
				Buckets: prometheus.DefBuckets,
			},
		),
		SSOLoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenantpanel_sso_logins_total",
				Help: "SSO login completions by result",
			},
			[]string{"result"},
		),
		DocCardLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tenantpanel_doc_card_lookups_total",
				Help: "Documentation card metadata lookups by result",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		m.TenantLookupsTotal,
		m.TenantLookupDuration,
		m.SSOLoginsTotal,
		m.DocCardLookupsTotal,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
