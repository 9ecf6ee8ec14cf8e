package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/househunter/internal/metrics"
	"github.com/hitoshi/househunter/internal/middleware"
)

// Pinger はデータストアの死活確認インターフェース。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenValidator    middleware.TokenValidator
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Logger            *slog.Logger

	// サービス
	AuthService    AuthServiceInterface
	UserService    UserServiceInterface
	HouseService   HouseServiceInterface
	BookingService BookingServiceInterface

	// 監視
	DB               Pinger
	MetricsCollector metrics.MetricsCollector
	MetricsGatherer  prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → Metrics
//
// 保護ルートグループにはさらに Auth → RateLimit(General) を適用する。
// ログインと登録には専用レート制限（IP単位）を適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	if deps.MetricsCollector != nil {
		r.Use(metrics.NewHTTPMetricsMiddleware(deps.MetricsCollector))
	}

	authHandler := NewAuthHandler(deps.AuthService)
	userHandler := NewUserHandler(deps.UserService)
	houseHandler := NewHouseHandler(deps.HouseService)
	bookingHandler := NewBookingHandler(deps.BookingService)

	// --- 認証不要のルート ---

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Server is running"})
	})

	r.Get("/health", newHealthHandler(deps.DB))

	if deps.MetricsGatherer != nil {
		r.Get("/metrics", metrics.Handler(deps.MetricsGatherer).ServeHTTP)
	}

	// 認証（登録・ログインにはIP単位のレート制限を適用）
	if deps.RateLimiter != nil {
		r.With(deps.RateLimiter.LoginMiddleware()).Post("/register", authHandler.Register)
		r.With(deps.RateLimiter.LoginMiddleware()).Post("/login", authHandler.Login)
	} else {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	}

	// ユーザー参照（ロール参照クエリは認証不要）
	r.Get("/users", userHandler.ListUsers)
	r.Get("/users/owner/{email}", userHandler.CheckOwner)
	r.Get("/users/renter/{email}", userHandler.CheckRenter)

	// 物件一覧・検索は公開
	r.Get("/houses", houseHandler.ListHouses)
	r.Get("/allhouses", houseHandler.ListHouses)

	// 予約数の参照は公開
	r.Get("/bookings/count", bookingHandler.CountBookings)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Auth → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewAuthMiddleware(deps.TokenValidator))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		r.Get("/protected", authHandler.Protected)

		// 物件管理
		r.Post("/houses", houseHandler.CreateHouse)
		r.Put("/houses/{houseID}", houseHandler.UpdateHouse)
		r.Get("/manage-house", houseHandler.ListManagedHouses)
		r.Delete("/manage-house/{houseID}", houseHandler.DeleteHouse)

		// 予約管理
		r.Post("/bookings", bookingHandler.CreateBooking)
		r.Get("/bookings", bookingHandler.ListBookings)
		r.Delete("/bookings/{bookingID}", bookingHandler.DeleteBooking)
	})

	return r
}

// newHealthHandler はデータストアの死活確認を行うヘルスチェックハンドラーを返す。
func newHealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
			defer cancel()

			if err := db.PingContext(ctx); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "unhealthy"})
				return
			}
		}

		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
