package utils

import (
	"net/http"
	"strconv"
	"time"

	"github.com/iov-one/drip"
	"github.com/iov-one/drip/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is a decorator that counts processed transactions and measures
// how long their processing takes. Collectors are labeled with the message
// path, the ABCI phase (check or deliver) and the result code.
type Metrics struct {
	txs      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ drip.Decorator = (*Metrics)(nil)

// NewMetrics creates a Metrics decorator and registers its collectors with
// given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		txs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "drip",
				Subsystem: "tx",
				Name:      "processed_total",
				Help:      "Total number of processed transactions.",
			},
			[]string{"phase", "path", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "drip",
				Subsystem: "tx",
				Name:      "duration_seconds",
				Help:      "Duration of transaction processing.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
			},
			[]string{"phase", "path"},
		),
	}
	reg.MustRegister(m.txs, m.duration)
	return m
}

// NewRegistry returns a registry with the process and Go runtime collectors
// already registered.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
	return reg
}

// MetricsHandler returns an HTTP handler exposing all metrics of given
// registry.
func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Check records the outcome of a check.
func (m *Metrics) Check(ctx drip.Context, store drip.KVStore, tx drip.Tx, next drip.Checker) (*drip.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	m.observe("check", drip.GetPath(tx), start, err)
	return res, err
}

// Deliver records the outcome of a delivery.
func (m *Metrics) Deliver(ctx drip.Context, store drip.KVStore, tx drip.Tx, next drip.Deliverer) (*drip.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.observe("deliver", drip.GetPath(tx), start, err)
	return res, err
}

func (m *Metrics) observe(phase, path string, start time.Time, err error) {
	code, _ := errors.ABCIInfo(err, false)
	m.txs.WithLabelValues(phase, path, codeLabel(code)).Inc()
	m.duration.WithLabelValues(phase, path).Observe(time.Since(start).Seconds())
}

func codeLabel(code uint32) string {
	if code == errors.SuccessABCICode {
		return "ok"
	}
	return strconv.FormatUint(uint64(code), 10)
}
