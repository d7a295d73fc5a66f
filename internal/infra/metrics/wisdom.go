package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(wisdomBroadcastsTotal) }

var wisdomBroadcastsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "wisdom_broadcasts_total",
		Help: "Scheduled daily wisdom posts by result.",
	},
	[]string{"result"}, // 'ok', 'failed'
)

func IncWisdomBroadcast(ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	wisdomBroadcastsTotal.WithLabelValues(result).Inc()
}
