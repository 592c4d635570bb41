package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/restosuite/venuestream/internal/bridge"
	"github.com/restosuite/venuestream/internal/realtime"
	"github.com/restosuite/venuestream/internal/recorder"
)

const namespace = "venuestream"

// Metrics holds the collector registry for one recorder instance.
type Metrics struct {
	registry *prometheus.Registry

	// Messages counts received events by kind.
	Messages *prometheus.CounterVec
}

// New creates a Metrics with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.Messages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Events received from the venue stream by kind",
		},
		[]string{"kind"},
	)
	m.registry.MustRegister(m.Messages)

	return m
}

// Handler returns the scrape handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveClient registers collectors over the realtime client counters.
func (m *Metrics) ObserveClient(c *realtime.Client) {
	m.registry.MustRegister(
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "connection_state",
				Help:      "Connection state (0=disconnected 1=connecting 2=authenticating 3=connected)",
			},
			func() float64 { return float64(c.State()) },
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "connected",
				Help:      "Whether the venue socket is authenticated and open",
			},
			func() float64 {
				if c.Connected() {
					return 1
				}
				return 0
			},
		),
		prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "history_size",
				Help:      "Messages currently retained in the history buffer",
			},
			func() float64 { return float64(c.Stats().HistoryLen) },
		),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reconnects_total",
				Help:      "Reconnect attempts scheduled after connection loss",
			},
			func() float64 { return float64(c.Stats().Reconnects) },
		),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "parse_errors_total",
				Help:      "Inbound frames dropped as unparseable",
			},
			func() float64 { return float64(c.Stats().ParseErrors) },
		),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "keepalive_pings_total",
				Help:      "Application-level pings written to the socket",
			},
			func() float64 { return float64(c.Stats().KeepalivesSent) },
		),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sends_dropped_total",
				Help:      "Outbound frames dropped because the socket was closed",
			},
			func() float64 { return float64(c.Stats().SendsDropped) },
		),
	)
}

// ObserveWriter registers collectors over the event writer counters.
func (m *Metrics) ObserveWriter(w *recorder.Writer) {
	m.registry.MustRegister(
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "recorder",
				Name:      "inserts_total",
				Help:      "Rows written to the venue_events table",
			},
			func() float64 { return float64(w.Stats().Inserts) },
		),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "recorder",
				Name:      "errors_total",
				Help:      "Batch inserts that failed",
			},
			func() float64 { return float64(w.Stats().Errors) },
		),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "recorder",
				Name:      "flushes_total",
				Help:      "Batches flushed to the database",
			},
			func() float64 { return float64(w.Stats().Flushes) },
		),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "recorder",
				Name:      "dropped_total",
				Help:      "Events dropped because the writer queue was full",
			},
			func() float64 { return float64(w.Stats().Dropped) },
		),
	)
}

// ObservePublisher registers collectors over the Redis fanout counters.
func (m *Metrics) ObservePublisher(p *bridge.Publisher) {
	m.registry.MustRegister(
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "fanout",
				Name:      "published_total",
				Help:      "Events published to the venue Redis channel",
			},
			func() float64 { return float64(p.Stats().Published) },
		),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "fanout",
				Name:      "dropped_total",
				Help:      "Events dropped because the publish queue was full",
			},
			func() float64 { return float64(p.Stats().Dropped) },
		),
		prometheus.NewCounterFunc(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "fanout",
				Name:      "failed_total",
				Help:      "Publishes that failed against Redis",
			},
			func() float64 { return float64(p.Stats().Failed) },
		),
	)
}
