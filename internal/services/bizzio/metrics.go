package bizzio

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	erpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizzio_erp_requests_total",
		Help: "ERP calls by operation and result",
	}, []string{"operation", "result"})

	erpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bizzio_erp_request_seconds",
		Help:    "ERP call latency",
		Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"operation"})
)

func observeRequest(kind Kind, d time.Duration, err error) {
	erpDuration.WithLabelValues(kind.String()).Observe(d.Seconds())
	erpRequests.WithLabelValues(kind.String(), resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	var (
		transportErr *TransportError
		parseErr     *ParseError
		apiErr       *APIError
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &transportErr):
		return "transport_error"
	case errors.As(err, &parseErr):
		return "parse_error"
	case errors.As(err, &apiErr):
		return "api_error"
	}
	return "error"
}
