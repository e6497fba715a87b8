// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CatalogMetrics はカタログ操作の記録インターフェース。
// サービス層から利用する。
type CatalogMetrics interface {
	RecordCatalogOp(resource, op string)
}

// HTTPMetrics はHTTPリクエストの記録インターフェース。
// ミドルウェアから利用する。
type HTTPMetrics interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestDuration(duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装。
// notify.Metricsインターフェースも満たす。
type Collector struct {
	catalogOps      *prometheus.CounterVec
	notifySent      prometheus.Counter
	notifyFailed    prometheus.Counter
	notifyDropped   prometheus.Counter
	httpStatus      *prometheus.CounterVec
	requestDuration prometheus.Histogram
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		catalogOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scripthub_catalog_ops_total",
			Help: "カタログ操作の合計数（リソース・操作別）",
		}, []string{"resource", "op"}),
		notifySent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scripthub_notifications_sent_total",
			Help: "送信に成功した通知の合計数",
		}),
		notifyFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scripthub_notifications_failed_total",
			Help: "送信に失敗した通知の合計数",
		}),
		notifyDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scripthub_notifications_dropped_total",
			Help: "キュー満杯により破棄された通知の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scripthub_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scripthub_request_duration_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.catalogOps,
		c.notifySent,
		c.notifyFailed,
		c.notifyDropped,
		c.httpStatus,
		c.requestDuration,
	)

	return c
}

// RecordCatalogOp はカタログ操作を記録する。
// resourceは"script"または"account"、opは"create"/"update"/"delete"。
func (c *Collector) RecordCatalogOp(resource, op string) {
	c.catalogOps.WithLabelValues(resource, op).Inc()
}

// RecordNotificationSent は通知送信成功を記録する。
func (c *Collector) RecordNotificationSent() {
	c.notifySent.Inc()
}

// RecordNotificationFailed は通知送信失敗を記録する。
func (c *Collector) RecordNotificationFailed() {
	c.notifyFailed.Inc()
}

// RecordNotificationDropped は通知破棄を記録する。
func (c *Collector) RecordNotificationDropped() {
	c.notifyDropped.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestDuration はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestDuration(duration time.Duration) {
	c.requestDuration.Observe(duration.Seconds())
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
