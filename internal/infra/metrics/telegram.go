package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		telegramCommandsReceivedTotal,
		telegramDeliveriesTotal,
		retryAttemptsTotal,
	)
}

var (
	telegramCommandsReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_commands_received_total",
			Help: "Counts dispatched updates by resolved command.",
		},
		[]string{"command"},
	)

	telegramDeliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_deliveries_total",
			Help: "Outbound Bot API calls by method and final result.",
		},
		[]string{"method", "result"}, // result: 'ok', 'failed'
	)

	retryAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retry_attempts_total",
			Help: "Retries scheduled after a failed attempt, by operation.",
		},
		[]string{"op"},
	)
)

func IncTelegramCommand(command string) {
	telegramCommandsReceivedTotal.WithLabelValues(norm(command)).Inc()
}

func IncDelivery(method string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	telegramDeliveriesTotal.WithLabelValues(norm(method), result).Inc()
}

func IncRetry(op string) {
	retryAttemptsTotal.WithLabelValues(norm(op)).Inc()
}
