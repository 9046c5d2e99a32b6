package codepost

import (
	"time"

	"github.com/cpheatmap/cpheatmap/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Outcome label values of the request counter.
const (
	outcomeOK        = "ok"
	outcomeError     = "error"
	outcomeTransport = "transport"
	outcomeMemo      = "memo"
)

const (
	requestsMetric = "cpheatmap_api_requests_total"
	durationMetric = "cpheatmap_api_request_duration_seconds"
)

type clientMetrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration prometheus.Histogram
}

func newClientMetrics(registry *prometheus.Registry) *clientMetrics {
	factory := promauto.With(registry)
	return &clientMetrics{
		registry: registry,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: requestsMetric,
			Help: "codePost API requests by outcome",
		}, []string{"outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    durationMetric,
			Help:    "codePost API request latency",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		}),
	}
}

func (m *clientMetrics) observe(outcome string, elapsed time.Duration) {
	m.requests.WithLabelValues(outcome).Inc()
	if outcome != outcomeMemo {
		m.duration.Observe(elapsed.Seconds())
	}
}

// snapshot reads the counters back out of the registry.
func (m *clientMetrics) snapshot() (schema.FetchStats, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return schema.FetchStats{}, err
	}

	var stats schema.FetchStats
	for _, mf := range families {
		switch mf.GetName() {
		case requestsMetric:
			for _, metric := range mf.GetMetric() {
				n := int(metric.GetCounter().GetValue())
				switch outcomeOf(metric) {
				case outcomeMemo:
					stats.MemoHits += n
					continue
				case outcomeError:
					stats.Errors += n
				case outcomeTransport:
					stats.Exceptions += n
				}
				stats.Requests += n
			}
		case durationMetric:
			for _, metric := range mf.GetMetric() {
				secs := metric.GetHistogram().GetSampleSum()
				stats.Elapsed += time.Duration(secs * float64(time.Second))
			}
		}
	}
	return stats, nil
}

func outcomeOf(metric *dto.Metric) string {
	for _, lp := range metric.GetLabel() {
		if lp.GetName() == "outcome" {
			return lp.GetValue()
		}
	}
	return ""
}
