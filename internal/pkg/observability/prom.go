package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ServiceName = "maabackend"
)

var (
	GameDataSyncDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "gamedata", "sync_duration_seconds"),
		Help:    "Duration of a single game data dataset refresh in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
	}, []string{"dataset"})
	GameDataSyncFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "gamedata", "sync_failures_total"),
		Help: "Count of failed game data dataset refreshes",
	}, []string{"dataset"})
	GameDataRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(ServiceName, "gamedata", "records"),
		Help: "Record count of the last successfully published dataset snapshot",
	}, []string{"dataset"})
	CopilotUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "copilot", "uploads_total"),
		Help: "Count of copilot uploads",
	}, []string{"outcome"})
)
