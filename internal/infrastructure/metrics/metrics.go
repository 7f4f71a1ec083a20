package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Movement metrics
	Deposits           prometheus.Counter
	Withdrawals        prometheus.Counter
	TransfersCommitted prometheus.Counter
	TransferAmount     prometheus.Histogram
	TransferErrors     *prometheus.CounterVec

	// Limit metrics
	ReservationsCreated  prometheus.Counter
	ReservationsReleased prometheus.Counter
	LimitRejections      *prometheus.CounterVec

	// Challenge metrics
	ChallengesIssued      prometheus.Counter
	ChallengesVerified    prometheus.Counter
	ChallengesConsumed    prometheus.Counter
	ChallengesRateLimited prometheus.Counter
	ChallengeFailures     prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Movement metrics
		Deposits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankcore_deposits_total",
			Help: "Total number of committed deposits",
		}),
		Withdrawals: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankcore_withdrawals_total",
			Help: "Total number of committed withdrawals",
		}),
		TransfersCommitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankcore_transfers_committed_total",
			Help: "Total number of committed transfers",
		}),
		TransferAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bankcore_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		TransferErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_transfer_errors_total",
				Help: "Total number of transfer errors by type",
			},
			[]string{"error_type"},
		),

		// Limit metrics
		ReservationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankcore_reservations_created_total",
			Help: "Total number of limit reservations created",
		}),
		ReservationsReleased: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankcore_reservations_released_total",
			Help: "Total number of limit reservations released",
		}),
		LimitRejections: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_limit_rejections_total",
				Help: "Total number of limit rejections by window",
			},
			[]string{"window"},
		),

		// Challenge metrics
		ChallengesIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankcore_challenges_issued_total",
			Help: "Total number of challenges issued",
		}),
		ChallengesVerified: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankcore_challenges_verified_total",
			Help: "Total number of challenges verified",
		}),
		ChallengesConsumed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankcore_challenges_consumed_total",
			Help: "Total number of challenges consumed",
		}),
		ChallengesRateLimited: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankcore_challenges_rate_limited_total",
			Help: "Total number of rate limited challenge issues",
		}),
		ChallengeFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankcore_challenge_failures_total",
			Help: "Total number of challenges that exhausted their attempts",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bankcore_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankcore_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
