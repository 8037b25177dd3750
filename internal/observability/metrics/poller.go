package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var pollerLastSuccessGauge = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "poller_last_success_timestamp_seconds",
		Help: "Unix time of the last successful run of each poller",
	},
	[]string{"type"},
)

// RecordPollerDuration wraps a poller job so that each run is observed in
// the poller histogram. Successful runs also move the last success gauge.
func RecordPollerDuration(typ string, job func(ctx context.Context) error) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		start := time.Now()
		err := job(ctx)

		pollerDurationHistogram.
			WithLabelValues(typ, outcome(err != nil).String()).
			Observe(time.Since(start).Seconds())
		if err == nil {
			pollerLastSuccessGauge.WithLabelValues(typ).SetToCurrentTime()
		}

		return err
	}
}
