package nshplugin

import "github.com/prometheus/client_golang/prometheus"

var stats = metrics{
	requests: prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nshsfc",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Number of binary API requests handled, by message and result",
	}, []string{
		"msg",
		"result",
	}),

	sessions: prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nshsfc",
		Subsystem: "api",
		Name:      "sessions",
		Help:      "Number of connected binary API clients",
	}),

	tables: prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "nshsfc",
		Subsystem: "nsh",
		Name:      "table_size",
		Help:      "Number of records in NSH tables",
	}, []string{
		"table",
	}),
}

type metrics struct {
	requests *prometheus.CounterVec
	sessions prometheus.Gauge
	tables   *prometheus.GaugeVec
}

func init() {
	prometheus.MustRegister(stats.requests)
	prometheus.MustRegister(stats.sessions)
	prometheus.MustRegister(stats.tables)
}

func (m *metrics) HandledRequest(msg string, retval int32) {
	result := "ok"
	if retval != 0 {
		result = "error"
	}
	m.requests.WithLabelValues(msg, result).Inc()
}

func (m *metrics) SessionOpened() {
	m.sessions.Inc()
}

func (m *metrics) SessionClosed() {
	m.sessions.Dec()
}

func (m *metrics) SetTableSizes(entries, maps, proxies int) {
	m.tables.WithLabelValues("entry").Set(float64(entries))
	m.tables.WithLabelValues("map").Set(float64(maps))
	m.tables.WithLabelValues("proxy").Set(float64(proxies))
}
