package recommend

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	recommendLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "recommend_latency_seconds",
		Help:    "Latency of scoring and ranking intervention combinations.",
		Buckets: prometheus.DefBuckets,
	})

	recommendTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "recommend_requests_total",
		Help: "Total number of recommendation requests.",
	})

	recommendErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_errors_total",
			Help: "Recommendation failures by error kind.",
		},
		[]string{"kind"},
	)

	retrainRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_retrain_runs_total",
			Help: "Model updater runs by trigger and result.",
		},
		[]string{"trigger", "result"},
	)

	activeModelMetric = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "recommend_active_model_metric",
		Help: "Validation accuracy of the model currently serving.",
	})
)

func init() {
	prometheus.MustRegister(
		recommendLatency,
		recommendTotal,
		recommendErrors,
		retrainRuns,
		activeModelMetric,
	)
}
