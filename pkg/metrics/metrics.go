package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP Метрики
// =============================================================================

// HttpRequestsTotal - счётчик всех HTTP запросов
// Labels: service, method, path, status
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - гистограмма времени ответа
// Пример: histogram_quantile(0.95, rate(http_request_duration_seconds_bucket[5m]))
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

// HttpRequestsInFlight - текущее количество обрабатываемых запросов
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// MongoDB Метрики
// =============================================================================

// MongoOperationDuration - время выполнения операций MongoDB
var MongoOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "mongo_operation_duration_seconds",
		Help:    "Duration of MongoDB operations in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "collection"},
)

// MongoErrors - счётчик ошибок MongoDB
var MongoErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "mongo_errors_total",
		Help: "Total number of MongoDB errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Redis Метрики
// =============================================================================

// RedisCacheHits - попадания в кеш
var RedisCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_hits_total",
		Help: "Total number of Redis cache hits",
	},
	[]string{"service", "key_prefix"},
)

// RedisCacheMisses - промахи кеша
var RedisCacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_misses_total",
		Help: "Total number of Redis cache misses",
	},
	[]string{"service", "key_prefix"},
)

// RedisErrors - ошибки Redis
var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Kafka Метрики
// =============================================================================

// KafkaMessagesProduced - отправленные сообщения
var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

// KafkaProduceDuration - время отправки сообщения
var KafkaProduceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_produce_duration_seconds",
		Help:    "Duration of Kafka produce operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"service", "topic"},
)

// KafkaErrors - ошибки Kafka
var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"},
)

// =============================================================================
// Business Метрики (специфичные для Elpro)
// =============================================================================

// --- Каталог ---

// CatalogCascadeUpdates - каскадные обновления перекрёстных ссылок
// Labels: operation (add_child, pull_product, detach_subcategory, ...)
var CatalogCascadeUpdates = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_cascade_updates_total",
		Help: "Total number of cross-reference cascade updates",
	},
	[]string{"operation"},
)

// CatalogCascadeFailures - каскады, прерванные на промежуточном шаге
var CatalogCascadeFailures = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_cascade_failures_total",
		Help: "Total number of cascades that failed mid-sequence",
	},
	[]string{"operation", "step"},
)

// --- Reconciler ---

// ReconcilerRuns - запуски сверки перекрёстных ссылок
var ReconcilerRuns = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "reconciler_runs_total",
		Help: "Total number of cross-reference reconciliation runs",
	},
	[]string{"status"}, // success, failed
)

// ReconcilerRepairs - исправленные нарушения инвариантов
var ReconcilerRepairs = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "reconciler_repairs_total",
		Help: "Total number of cross-reference violations repaired",
	},
	[]string{"kind"}, // dangling_child, missing_backref, orphan_product_ref, ...
)

// --- Заказы ---

// OrdersCreated - созданные заказы
var OrdersCreated = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created",
	},
)

// OrdersTotalAmount - общая сумма заказов
var OrdersTotalAmount = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "orders_total_amount",
		Help: "Total amount of all orders",
	},
)

// --- Auth ---

// AuthLogins - попытки входа
var AuthLogins = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Total number of login attempts",
	},
	[]string{"status"}, // success, failed
)
