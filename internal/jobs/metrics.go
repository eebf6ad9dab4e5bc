package jobs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dndtools_jobs_started_total",
		Help: "Generation jobs picked up by the runner.",
	}, []string{"kind"})

	jobsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dndtools_jobs_finished_total",
		Help: "Generation jobs reaching a terminal state.",
	}, []string{"kind", "status"})

	artifactsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dndtools_artifacts_created_total",
		Help: "Artifacts persisted, by kind.",
	}, []string{"kind"})
)
