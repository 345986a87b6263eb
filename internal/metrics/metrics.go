package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/doridoridoriand/uptime-go/internal/tracker"
)

// Collector records tracker events as Prometheus metrics. It implements
// notify.Notifier.
type Collector struct {
	up             prometheus.Gauge
	outages        prometheus.Counter
	probes         *prometheus.CounterVec
	rtt            prometheus.Histogram
	currentOutage  prometheus.Gauge
	outageDuration prometheus.Histogram
}

// NewCollector creates the metrics for target and registers them with reg.
func NewCollector(reg prometheus.Registerer, target string) *Collector {
	labels := prometheus.Labels{"target": target}
	c := &Collector{
		up: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "uptime_target_up",
			Help:        "1 if the last probe succeeded, 0 otherwise.",
			ConstLabels: labels,
		}),
		outages: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "uptime_outages_total",
			Help:        "Number of online to offline transitions.",
			ConstLabels: labels,
		}),
		probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "uptime_probes_total",
			Help:        "Probes by result.",
			ConstLabels: labels,
		}, []string{"result"}),
		rtt: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "uptime_probe_rtt_seconds",
			Help:        "Round-trip time of successful probes.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		currentOutage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "uptime_current_outage_seconds",
			Help:        "Length of the ongoing outage, 0 while online.",
			ConstLabels: labels,
		}),
		outageDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "uptime_outage_duration_seconds",
			Help:        "Length of completed outages.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(1, 2, 14),
		}),
	}
	c.up.Set(1)
	reg.MustRegister(c.up, c.outages, c.probes, c.rtt, c.currentOutage, c.outageDuration)
	return c
}

// Notify updates the gauges and counters for ev.
func (c *Collector) Notify(ev tracker.Event) {
	switch ev.Kind {
	case tracker.StillOnline:
		c.up.Set(1)
		c.probes.WithLabelValues("success").Inc()
		c.rtt.Observe(ev.Latency.Seconds())
	case tracker.CameBackOnline:
		c.up.Set(1)
		c.probes.WithLabelValues("success").Inc()
		c.rtt.Observe(ev.Latency.Seconds())
		c.currentOutage.Set(0)
		c.outageDuration.Observe(ev.OutageDuration.Seconds())
	case tracker.WentOffline:
		c.up.Set(0)
		c.outages.Inc()
		c.probes.WithLabelValues("failure").Inc()
		c.currentOutage.Set(0)
	case tracker.StillOffline:
		c.up.Set(0)
		c.probes.WithLabelValues("failure").Inc()
		c.currentOutage.Set(ev.OutageDuration.Seconds())
	}
}
