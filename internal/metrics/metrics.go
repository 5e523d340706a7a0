// Package metrics はPrometheusメトリクスの収集と公開を提供します。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder はメトリクス記録のインターフェースです。
// 認証処理やミドルウェアから利用します。
type Recorder interface {
	RecordLogin(result string)
	RecordAuthentication(result, reason string)
	RecordLogout()
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
}

// Collector はPrometheusメトリクスを収集する実装です。
type Collector struct {
	logins          *prometheus.CounterVec
	authentications *prometheus.CounterVec
	logouts         prometheus.Counter
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
}

// NewCollector は Collector を生成し、指定されたレジストリに登録します。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "session_demo_logins_total",
			Help: "ログイン試行の結果別件数",
		}, []string{"result"}),
		authentications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "session_demo_authentications_total",
			Help: "セッションクッキー検証の結果別件数（reason は内部向けの失敗理由）",
		}, []string{"result", "reason"}),
		logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "session_demo_logouts_total",
			Help: "ログアウト件数",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "session_demo_http_requests_total",
			Help: "HTTPリクエスト件数",
		}, []string{"method", "route", "status_code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "session_demo_http_request_duration_seconds",
			Help:    "HTTPリクエストの処理時間（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.logins,
		c.authentications,
		c.logouts,
		c.httpRequests,
		c.httpDuration,
	)

	return c
}

// RecordLogin はログイン結果を記録します。
func (c *Collector) RecordLogin(result string) {
	c.logins.WithLabelValues(result).Inc()
}

// RecordAuthentication はクッキー検証結果を記録します。
func (c *Collector) RecordAuthentication(result, reason string) {
	c.authentications.WithLabelValues(result, reason).Inc()
}

// RecordLogout はログアウトを記録します。
func (c *Collector) RecordLogout() {
	c.logouts.Inc()
}

// RecordHTTPRequest はHTTPリクエストの件数と処理時間を記録します。
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler は /metrics エンドポイント用のHTTPハンドラーを返します。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop は何も記録しない Recorder です。
type Nop struct{}

func (Nop) RecordLogin(string) {}
func (Nop) RecordAuthentication(string, string) {}
func (Nop) RecordLogout() {}
func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}
