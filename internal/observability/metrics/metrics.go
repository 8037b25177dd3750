package metrics

import (
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/pisfinance/pis-vault/internal/config"
)

type Outcome string

const (
	Success                  Outcome       = "success"
	Error                    Outcome       = "error"
	MetricRequestTimeout     time.Duration = 5 * time.Second
	MetricRequestIdleTimeout time.Duration = 10 * time.Second
)

func (O Outcome) String() string {
	return string(O)
}

func outcome(failure bool) Outcome {
	if failure {
		return Error
	}
	return Success
}

var defaultHistogramBucketsSeconds = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30}

// Collectors exist from package init so that recording works in tests and
// tools that never call Init; Init only registers and serves them.
var (
	once sync.Once

	dbLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_latency_seconds",
			Help:    "DB latency in seconds splitted by method and execution status",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "status"},
	)

	ledgerLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_latency_seconds",
			Help:    "Token ledger call latency in seconds splitted by token, method and execution status",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"token", "method", "status"},
	)

	vaultOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vault_operation_duration_seconds",
			Help:    "Histogram of vault operation durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"operation", "status"},
	)

	// server requests are the ones served by the vault api
	httpRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of http request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "route", "status"},
	)

	// add a counter for the number of errors from the fail to push message into queue
	queueSendErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_send_error_count",
			Help: "The total number of errors when sending messages to the queue",
		},
	)

	pollerDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poller_duration_seconds",
			Help:    "Histogram of poller durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"type", "status"},
	)

	poolTotalStakedGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vault_pool_total_staked",
			Help: "Staked token amount held by each pool",
		},
		[]string{"pool_id"},
	)

	poolWeightGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "vault_pool_weight",
			Help: "Allocation weight of each pool",
		},
		[]string{"pool_id"},
	)

	rewardBalanceGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vault_reward_balance",
			Help: "Reward token balance accounted by the vault",
		},
	)

	pendingRewardsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vault_pending_rewards",
			Help: "Collected reward not yet credited to the pools",
		},
	)

	positionCountGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "vault_position_count",
			Help: "Number of open positions",
		},
	)

	feeMultiplierGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fee_multiplier",
			Help: "Current transfer fee multiplier out of 1000",
		},
	)
)

// Init registers the collectors and serves them on the configured address.
// Only the first call has an effect.
func Init(cfg *config.MetricsConfig) {
	once.Do(func() {
		registerMetrics()
		serve(net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)))
	})
}

func serve(addr string) {
	router := chi.NewRouter()
	router.Method(http.MethodGet, "/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	go func() {
		log.Info().Msgf("Starting metrics server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
		}
	}()
}

// registerMetrics registers the Prometheus metrics.
func registerMetrics() {
	prometheus.MustRegister(
		dbLatency,
		ledgerLatency,
		vaultOperationDuration,
		httpRequestDurationHistogram,
		queueSendErrorCounter,
		pollerDurationHistogram,
		pollerLastSuccessGauge,
		poolTotalStakedGauge,
		poolWeightGauge,
		rewardBalanceGauge,
		pendingRewardsGauge,
		positionCountGauge,
		feeMultiplierGauge,
	)
}

func RecordDbLatency(d time.Duration, method string, failure bool) {
	dbLatency.WithLabelValues(method, outcome(failure).String()).Observe(d.Seconds())
}

func RecordLedgerLatency(d time.Duration, token, method string, failure bool) {
	ledgerLatency.WithLabelValues(token, method, outcome(failure).String()).Observe(d.Seconds())
}

func RecordVaultOperation(d time.Duration, operation string, failure bool) {
	vaultOperationDuration.WithLabelValues(operation, outcome(failure).String()).Observe(d.Seconds())
}

func RecordHttpRequestDuration(d time.Duration, method, route string, statusCode int) {
	httpRequestDurationHistogram.WithLabelValues(
		method,
		route,
		strconv.Itoa(statusCode),
	).Observe(d.Seconds())
}

func RecordPoolStats(poolID uint64, totalStaked float64, weight uint64) {
	id := strconv.FormatUint(poolID, 10)
	poolTotalStakedGauge.WithLabelValues(id).Set(totalStaked)
	poolWeightGauge.WithLabelValues(id).Set(float64(weight))
}

func RecordVaultStats(rewardBalance, pendingRewards float64, positions int) {
	rewardBalanceGauge.Set(rewardBalance)
	pendingRewardsGauge.Set(pendingRewards)
	positionCountGauge.Set(float64(positions))
}

func RecordFeeMultiplier(multiplier uint64) {
	feeMultiplierGauge.Set(float64(multiplier))
}

func RecordQueueSendError() {
	queueSendErrorCounter.Inc()
}
