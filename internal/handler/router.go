package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/campuslink/internal/middleware"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// *sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig

	// 運用系（nil可）
	HealthChecker  HealthChecker
	MetricsHandler http.Handler
	StatusRecorder middleware.StatusRecorder

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// アカウント
	AccountService AccountServiceInterface

	// 検索
	SearchService SearchServiceInterface

	// 友達ネットワーク
	NetworkService NetworkServiceInterface

	// プロフィール
	ProfileService ProfileServiceInterface

	// 求人
	JobService JobServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Logging → Metrics → CORS
//	→ SessionMiddleware → CSRFMiddleware → RateLimitMiddleware(GeneralMiddleware)
//
// 認証ルート（/auth/*）とアカウント登録はミドルウェアチェーンの外に配置する。
// アカウント登録にはIP単位の登録専用レート制限を適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// 全ルートに効くミドルウェア
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	r.Use(middleware.NewMetricsMiddleware(deps.StatusRecorder))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	accountHandler := NewAccountHandler(deps.AccountService, deps.AuthConfig)
	searchHandler := NewSearchHandler(deps.SearchService)
	networkHandler := NewNetworkHandler(deps.NetworkService)
	profileHandler := NewProfileHandler(deps.ProfileService)
	jobHandler := NewJobHandler(deps.JobService)

	// --- 認証不要のルート ---

	// ヘルスチェック
	r.Get("/health", newHealthHandler(deps.HealthChecker))

	// Prometheusスクレイプ
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// 認証ルート
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// アカウント登録（未認証のためIP単位でレート制限）
	r.With(deps.RateLimiter.SignupMiddleware()).Post("/api/accounts", accountHandler.SignUp)

	// CSRFトークン取得
	r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → CSRF → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// アカウント管理
		r.Route("/api/accounts/me", func(r chi.Router) {
			r.Delete("/", accountHandler.Withdraw)
		})

		// ディレクトリ検索
		r.Route("/api/search", func(r chi.Router) {
			r.Get("/accounts", searchHandler.SearchAccounts)
			r.Get("/lookup", searchHandler.LookupByFullName)
		})

		// 友達リクエストと友達関係
		r.Route("/api/friends", func(r chi.Router) {
			r.Get("/", networkHandler.ListFriends)
			r.Delete("/{username}", networkHandler.Disconnect)

			r.Route("/requests", func(r chi.Router) {
				r.Post("/", networkHandler.SendRequest)
				r.Get("/", networkHandler.ListPending)
				r.Post("/{requester}/accept", networkHandler.Accept)
				r.Post("/{requester}/reject", networkHandler.Reject)
			})
		})

		// プロフィール管理
		r.Route("/api/profiles", func(r chi.Router) {
			r.Route("/me", func(r chi.Router) {
				r.Put("/", profileHandler.Upsert)
				r.Delete("/", profileHandler.DeleteProfile)
				r.Delete("/education", profileHandler.DeleteEducation)
				r.Post("/experiences", profileHandler.AddExperience)
				r.Delete("/experiences/{id}", profileHandler.DeleteExperience)
			})
			r.Get("/{username}", profileHandler.Get)
		})

		// 求人掲示板
		r.Route("/api/jobs", func(r chi.Router) {
			r.Post("/", jobHandler.Post)
			r.Get("/", jobHandler.List)
			r.Delete("/{id}", jobHandler.Delete)
		})
	})

	return r
}

// newHealthHandler はDB疎通を確認するヘルスチェックハンドラーを返す。
// checkerがnilの場合は常にokを返す。
func newHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
