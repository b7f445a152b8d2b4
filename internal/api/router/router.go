package router

import (
	"net/http"
	"time"

	"github.com/RoyceAzure/lab/pickup/internal/api"
	"github.com/RoyceAzure/lab/pickup/internal/api/handler"
	m "github.com/RoyceAzure/lab/pickup/internal/api/middleware"
	"github.com/RoyceAzure/lab/pickup/internal/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultRequestTimeout = 15 * time.Second

type Options struct {
	Logger zerolog.Logger
	// Limiter 只套用在下單
	Limiter ratelimit.Limiter
	// AdminKey 每次請求取得最新的管理密碼
	AdminKey       func() string
	RequestTimeout time.Duration
	// TrustProxyHeaders 只有在可信任的反向代理後面才設為 true
	// 否則限流以 RemoteAddr 為準, X-Real-IP / X-Forwarded-For 不會被採用
	TrustProxyHeaders bool
}

func SetupRouter(server *api.Server, opts Options) http.Handler {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultRequestTimeout
	}

	r := chi.NewRouter()

	// 全局中間件
	r.Use(m.RequestIdMiddleware)
	if opts.TrustProxyHeaders {
		r.Use(middleware.RealIP)
	}
	r.Use(m.LoggerMiddleware(opts.Logger))
	r.Use(m.RecoverMiddleware(opts.Logger))
	r.Use(middleware.Timeout(opts.RequestTimeout))

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/healthz", server.HealthHandler.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/menu", server.MenuHandler.GetMenu)
		r.With(m.NewRateLimitMiddleware(opts.Limiter)).Post("/order", server.OrderHandler.PlaceOrder)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(m.AdminKeyMiddleware(opts.AdminKey))
		r.Get("/orders", server.AdminHandler.ListOrders)
	})

	return otelhttp.NewHandler(r, "pickup",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
