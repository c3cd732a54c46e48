package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActiveSessions         = promauto.NewGauge(prometheus.GaugeOpts{Name: "telbridge_active_sessions", Help: "Currently bridged client sessions"})
	SessionsTotal          = promauto.NewCounter(prometheus.CounterOpts{Name: "telbridge_sessions_total", Help: "Sessions accepted since start"})
	BackendDialFailures    = promauto.NewCounter(prometheus.CounterOpts{Name: "telbridge_backend_dial_failures_total", Help: "Failed backend telnet dials"})
	NegotiationsTotal      = promauto.NewCounterVec(prometheus.CounterOpts{Name: "telbridge_negotiations_total", Help: "Telnet negotiations answered by option"}, []string{"option"})
	BytesTotal             = promauto.NewCounterVec(prometheus.CounterOpts{Name: "telbridge_bytes_total", Help: "Bytes relayed by direction"}, []string{"direction"})
	ErrorsTotal            = promauto.NewCounterVec(prometheus.CounterOpts{Name: "telbridge_errors_total", Help: "Errors by type"}, []string{"type"})
	SessionDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{Name: "telbridge_session_duration_seconds", Help: "Session lifetime seconds", Buckets: prometheus.ExponentialBuckets(0.01, 2, 16)})
)
