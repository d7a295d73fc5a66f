package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(webhookUpdatesTotal) }

var webhookUpdatesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "webhook_updates_total",
		Help: "Webhook calls by ingress outcome.",
	},
	[]string{"result"}, // 'accepted', 'malformed', 'duplicate', 'dropped', 'ignored', 'not_ready'
)

func IncWebhookUpdate(result string) {
	webhookUpdatesTotal.WithLabelValues(norm(result)).Inc()
}
