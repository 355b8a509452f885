// Package metrics exposes console counters in the Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "termframe"

var (
	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sessions_active",
		Help:      "Number of live console sessions.",
	})
	sessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_started_total",
		Help:      "Console sessions registered since start.",
	})
	logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Login attempts by result.",
	}, []string{"result"})
	broadcasts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "messages_broadcast_total",
		Help:      "Chat messages delivered to sessions.",
	})
)

// SessionStarted records a newly registered session.
func SessionStarted() {
	sessionsActive.Inc()
	sessionsStarted.Inc()
}

// SessionEnded records an unregistered session.
func SessionEnded() {
	sessionsActive.Dec()
}

// Login records a login attempt.
func Login(ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	logins.WithLabelValues(result).Inc()
}

// Delivered adds n broadcast deliveries.
func Delivered(n int) {
	if n > 0 {
		broadcasts.Add(float64(n))
	}
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
