package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// 排序一次完整请求的耗时（秒）
	RankingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "priority_ranking_duration_seconds",
			Help:    "Time spent computing one top-priority ranking",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
	)

	// 每个来源拉取到的候选数量
	CandidatesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "priority_candidates_fetched_total",
			Help: "Candidates fetched per source",
		},
		[]string{"source"}, // source: messages, tasks, events, extracted_dates, clients
	)

	// 来源查询失败（含熔断）
	SourceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "priority_source_failures_total",
			Help: "Source fetches that failed and were treated as empty",
		},
		[]string{"source", "reason"}, // reason: error, breaker_open
	)

	// 每个来源熔断器状态：0 closed, 1 open, 2 half_open
	SourceBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "priority_source_breaker_state",
			Help: "Circuit breaker state per candidate source",
		},
		[]string{"source"},
	)

	// 单个候选打分失败
	ScoringFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "priority_scoring_failures_total",
			Help: "Candidates skipped because scoring failed",
		},
		[]string{"kind"},
	)

	// 返回给调用方的条目数
	RankedItems = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "priority_ranked_items",
			Help:    "Number of items returned per ranking",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		},
	)

	// 数据库查询延迟（秒）
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation", "table"},
	)

	// 慢查询计数
	SlowQueryCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_slow_query_total",
			Help: "Queries slower than the configured threshold",
		},
		[]string{"sql"},
	)

	// HTTP 请求延迟（秒）
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// 摘要通知发送计数
	DigestPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "priority_digest_published_total",
			Help: "Digest notifications handled by the worker",
		},
		[]string{"status"}, // status: published, skipped, failed
	)
)

// RecordRanking 记录一次排序的耗时与返回数量
func RecordRanking(duration time.Duration, items int) {
	RankingDuration.Observe(duration.Seconds())
	RankedItems.Observe(float64(items))
}

// AddCandidates 记录来源拉取数量
func AddCandidates(source string, n int) {
	CandidatesFetched.WithLabelValues(source).Add(float64(n))
}

// IncrementSourceFailure 记录来源失败
func IncrementSourceFailure(source, reason string) {
	SourceFailures.WithLabelValues(source, reason).Inc()
}

// IncrementScoringFailure 记录打分失败
func IncrementScoringFailure(kind string) {
	ScoringFailures.WithLabelValues(kind).Inc()
}

// RecordDBQueryDuration 记录数据库查询延迟
func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// IncrementSlowQuery 记录慢查询；duration 只用于日志，指标只计数
func IncrementSlowQuery(sql string, _ time.Duration) {
	SlowQueryCount.WithLabelValues(sql).Inc()
}

// RecordHTTPRequestDuration 记录 HTTP 请求延迟
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementDigest 记录摘要处理结果
func IncrementDigest(status string) {
	DigestPublished.WithLabelValues(status).Inc()
}

// SetBreakerState 记录熔断器状态，state 与 circuitbreaker.State 的取值一致
func SetBreakerState(source string, state int) {
	SourceBreakerState.WithLabelValues(source).Set(float64(state))
}
