package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(workerTasksTotal, workerQueueDepth) }

var (
	workerTasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_tasks_total",
			Help: "Background tasks by outcome.",
		},
		[]string{"result"}, // 'ok', 'error', 'panic', 'rejected', 'abandoned'
	)

	workerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Tasks waiting in the worker queue.",
		},
	)
)

func IncWorkerTask(result string) {
	workerTasksTotal.WithLabelValues(norm(result)).Inc()
}

func AddWorkerTasks(result string, n int) {
	if n <= 0 {
		return
	}
	workerTasksTotal.WithLabelValues(norm(result)).Add(float64(n))
}

func SetQueueDepth(n int) {
	workerQueueDepth.Set(float64(n))
}
