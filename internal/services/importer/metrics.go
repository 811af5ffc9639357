package importer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/xelth-com/bizziosync/internal/services/bizzio"
)

var (
	recordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizzio_import_records_total",
		Help: "Reconciled records by kind and result",
	}, []string{"kind", "result"})

	batchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bizzio_import_batch_seconds",
		Help:    "Time spent reconciling one batch",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	fetchedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizzio_import_fetched_records_total",
		Help: "Records fetched into snapshots",
	}, []string{"kind"})
)

func observeBatch(kind bizzio.Kind, d Delta, elapsed time.Duration) {
	batchDuration.WithLabelValues(kind.String()).Observe(elapsed.Seconds())
	recordsTotal.WithLabelValues(kind.String(), "created").Add(float64(d.Created))
	recordsTotal.WithLabelValues(kind.String(), "updated").Add(float64(d.Updated))
	recordsTotal.WithLabelValues(kind.String(), "failed").Add(float64(d.Failed))
}

func observeFetch(kind bizzio.Kind, n int) {
	fetchedTotal.WithLabelValues(kind.String()).Add(float64(n))
}
