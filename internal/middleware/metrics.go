package middleware

import (
	"net/http"
	"time"

	"github.com/hitoshi/scripthub/internal/metrics"
)

// NewMetricsMiddleware はレスポンスのステータスコードと処理時間を
// Prometheusメトリクスとして記録するミドルウェアを返す。
func NewMetricsMiddleware(collector metrics.HTTPMetrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rec := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rec, r)

			collector.RecordHTTPStatus(rec.statusCode)
			collector.RecordRequestDuration(time.Since(start))
		})
	}
}
