package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	toolCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_tool_calls_total",
			Help: "Tool executions by canonical tool, outcome and data source.",
		},
		[]string{"tool", "status", "source"},
	)

	toolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_tool_duration_seconds",
			Help:    "Tool execution latency including the downstream call.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"tool"},
	)

	resolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_tool_resolutions_total",
			Help: "Tool name resolutions by matching step.",
		},
		[]string{"match"},
	)

	upstreamErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_upstream_api_errors_total",
			Help: "Non-success responses from the wallet bridge and Splitwise.",
		},
		[]string{"operation", "status_code"},
	)

	walletClientInits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_wallet_client_inits_total",
			Help: "Wallet SDK client constructions by result.",
		},
		[]string{"result"},
	)

	auditFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_audit_write_failures_total",
		Help: "Audit events that could not be written to the sink.",
	})
)

func init() {
	registry.MustRegister(
		toolCalls,
		toolDuration,
		resolutions,
		upstreamErrors,
		walletClientInits,
		auditFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

func IncToolCall(toolName, status, source string) {
	if source == "" {
		source = "none"
	}
	toolCalls.WithLabelValues(toolName, status, source).Inc()
}

func ObserveToolDuration(toolName string, d time.Duration) {
	toolDuration.WithLabelValues(toolName).Observe(d.Seconds())
}

func IncResolution(match string) {
	resolutions.WithLabelValues(match).Inc()
}

func IncUpstreamAPIError(operation string, statusCode int) {
	upstreamErrors.WithLabelValues(operation, strconv.Itoa(statusCode)).Inc()
}

func IncWalletClientInit(result string) {
	walletClientInits.WithLabelValues(result).Inc()
}

func IncAuditFailure() {
	auditFailures.Inc()
}

// Handler serves the gateway registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
}
