// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層から利用する。
type MetricsCollector interface {
	RecordSignupSuccess()
	RecordSignupRefused(reason string)
	RecordFriendRequestSent()
	RecordFriendRequestAccepted()
	RecordFriendRequestRejected()
	RecordProfileUpsert(created bool)
	RecordExperienceLimitHit()
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	signupSuccess       prometheus.Counter
	signupRefused       *prometheus.CounterVec
	requestsSent        prometheus.Counter
	requestsAccepted    prometheus.Counter
	requestsRejected    prometheus.Counter
	profileUpserts      *prometheus.CounterVec
	experienceLimitHits prometheus.Counter
	httpStatus          *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signupSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "campuslink_signup_success_total",
			Help: "アカウント登録成功の合計数",
		}),
		signupRefused: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campuslink_signup_refused_total",
			Help: "アカウント登録拒否の理由別合計数",
		}, []string{"reason"}),
		requestsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "campuslink_friend_requests_sent_total",
			Help: "送信された友達リクエストの合計数",
		}),
		requestsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "campuslink_friend_requests_accepted_total",
			Help: "承認された友達リクエストの合計数",
		}),
		requestsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "campuslink_friend_requests_rejected_total",
			Help: "拒否された友達リクエストの合計数",
		}),
		profileUpserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campuslink_profile_upserts_total",
			Help: "プロフィール保存の操作種別（create/merge）ごとの合計数",
		}, []string{"mode"}),
		experienceLimitHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "campuslink_experience_limit_hits_total",
			Help: "職歴上限到達の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campuslink_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.signupSuccess,
		c.signupRefused,
		c.requestsSent,
		c.requestsAccepted,
		c.requestsRejected,
		c.profileUpserts,
		c.experienceLimitHits,
		c.httpStatus,
	)

	return c
}

// RecordSignupSuccess はアカウント登録成功を記録する。
func (c *Collector) RecordSignupSuccess() {
	c.signupSuccess.Inc()
}

// RecordSignupRefused はアカウント登録拒否を理由付きで記録する。
func (c *Collector) RecordSignupRefused(reason string) {
	c.signupRefused.WithLabelValues(reason).Inc()
}

// RecordFriendRequestSent は友達リクエスト送信を記録する。
func (c *Collector) RecordFriendRequestSent() {
	c.requestsSent.Inc()
}

// RecordFriendRequestAccepted は友達リクエスト承認を記録する。
func (c *Collector) RecordFriendRequestAccepted() {
	c.requestsAccepted.Inc()
}

// RecordFriendRequestRejected は友達リクエスト拒否を記録する。
func (c *Collector) RecordFriendRequestRejected() {
	c.requestsRejected.Inc()
}

// RecordProfileUpsert はプロフィール保存を操作種別付きで記録する。
func (c *Collector) RecordProfileUpsert(created bool) {
	mode := "merge"
	if created {
		mode = "create"
	}
	c.profileUpserts.WithLabelValues(mode).Inc()
}

// RecordExperienceLimitHit は職歴上限到達を記録する。
func (c *Collector) RecordExperienceLimitHit() {
	c.experienceLimitHits.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
