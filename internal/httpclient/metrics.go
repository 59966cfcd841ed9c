package httpclient

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess   = "success"
	outcomeHTTPError = "http_error"
	outcomeTimeout   = "timeout"
	outcomeAborted   = "aborted"
	outcomeNetwork   = "network_error"
)

type metrics struct {
	requests *prometheus.CounterVec
}

// newMetrics registers the client counter on reg. Registering twice on the
// same registry reuses the existing collector.
func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "docportal_client_requests_total",
			Help: "Total number of upstream API requests by outcome.",
		},
		[]string{"method", "outcome"},
	)
	if err := reg.Register(requests); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		requests = existing
	}
	return &metrics{requests: requests}, nil
}

func (m *metrics) observe(method, outcome string) {
	m.requests.WithLabelValues(method, outcome).Inc()
}
