package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"qsr-forecast/models"
)

// GeneratorMetrics describes one generation run for node_exporter's
// textfile collector.
type GeneratorMetrics struct {
	registry    *prometheus.Registry
	records     *prometheus.GaugeVec
	stores      prometheus.Gauge
	duration    prometheus.Gauge
	lastSuccess prometheus.Gauge
	failures    prometheus.Counter
}

// NewGeneratorMetrics registers the generator metrics on a private registry.
func NewGeneratorMetrics() *GeneratorMetrics {
	m := &GeneratorMetrics{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "qsr_generator_records",
			Help: "Sales records produced by the last run, per partition.",
		}, []string{"partition"}),
		stores: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "qsr_generator_stores",
			Help: "Stores in the generated roster.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "qsr_generator_duration_seconds",
			Help: "Wall time of the last generation run.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "qsr_generator_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "qsr_generator_failures_total",
			Help: "Failed generation runs.",
		}),
	}
	m.registry.MustRegister(m.records, m.stores, m.duration, m.lastSuccess, m.failures)
	return m
}

// ObserveSuccess records the shape of a persisted dataset.
func (m *GeneratorMetrics) ObserveSuccess(ds *models.Dataset, elapsed time.Duration) {
	m.records.WithLabelValues("full").Set(float64(len(ds.Sales)))
	m.records.WithLabelValues("train").Set(float64(len(ds.Train)))
	m.records.WithLabelValues("validation").Set(float64(len(ds.Validation)))
	m.stores.Set(float64(len(ds.Stores)))
	m.duration.Set(elapsed.Seconds())
	m.lastSuccess.SetToCurrentTime()
}

// ObserveFailure counts a failed run.
func (m *GeneratorMetrics) ObserveFailure(elapsed time.Duration) {
	m.failures.Inc()
	m.duration.Set(elapsed.Seconds())
}

// Registry exposes the underlying registry.
func (m *GeneratorMetrics) Registry() *prometheus.Registry { return m.registry }

// WriteTextfile writes all metrics to path in the text exposition format.
func (m *GeneratorMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("metrics: write textfile: %w", err)
	}
	return nil
}
