package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(buildInfo)
}

var buildInfo = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "build_info",
		Help: "A constant metric with labels for version, commit and environment.",
	},
	[]string{"version", "commit", "environment"},
)

func SetBuildInfo(version, commit, environment string) {
	buildInfo.WithLabelValues(version, commit, norm(environment)).Set(1)
}
