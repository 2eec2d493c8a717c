// ABOUTME: Prometheus collectors for HTTP traffic and license engine activity
// ABOUTME: A nil *Monitor is valid and records nothing

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine labels
const (
	EngineInfrastructure = "infrastructure"
	EngineNetworkTests   = "network_tests"
)

// Import result labels
const (
	ImportOK     = "ok"
	ImportCached = "cached"
	ImportFailed = "failed"
)

type Monitor struct {
	registry *prometheus.Registry

	RequestCounter     *prometheus.CounterVec
	RequestTimer       *prometheus.HistogramVec
	CalculationCounter *prometheus.CounterVec
	NetworkTestUnits   prometheus.Counter
	ImportCounter      *prometheus.CounterVec
}

// NewMonitor creates the collectors and registers them on registry.
func NewMonitor(registry *prometheus.Registry) *Monitor {
	requestCounter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "licensecalc_http_requests_total",
		Help: "Number of HTTP requests served",
	}, []string{"path", "method", "status"})
	requestTimer := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "licensecalc_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"path", "method"})
	calculationCounter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "licensecalc_calculations_total",
		Help: "Number of license calculations per engine",
	}, []string{"engine"})
	networkTestUnits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "licensecalc_network_test_units_total",
		Help: "Sum of network-test units over all calculations",
	})
	importCounter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "licensecalc_workbook_imports_total",
		Help: "Number of workbook imports by result",
	}, []string{"result"})

	registry.MustRegister(
		requestCounter,
		requestTimer,
		calculationCounter,
		networkTestUnits,
		importCounter,
	)
	return &Monitor{
		registry:           registry,
		RequestCounter:     requestCounter,
		RequestTimer:       requestTimer,
		CalculationCounter: calculationCounter,
		NetworkTestUnits:   networkTestUnits,
		ImportCounter:      importCounter,
	}
}

// ObserveRequest records one served request.
func (m *Monitor) ObserveRequest(path, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestCounter.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.RequestTimer.WithLabelValues(path, method).Observe(elapsed.Seconds())
}

// ObserveCalculation counts one engine run.
func (m *Monitor) ObserveCalculation(engine string) {
	if m == nil {
		return
	}
	m.CalculationCounter.WithLabelValues(engine).Inc()
}

// ObserveNetworkTestUnits adds the total of one network-test calculation.
func (m *Monitor) ObserveNetworkTestUnits(units int) {
	if m == nil || units <= 0 {
		return
	}
	m.NetworkTestUnits.Add(float64(units))
}

// ObserveImport counts one workbook import.
func (m *Monitor) ObserveImport(result string) {
	if m == nil {
		return
	}
	m.ImportCounter.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Monitor) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
