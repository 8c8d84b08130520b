package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/AnndyBrock/real-estate-app/internal/infra/config"
	appRedis "github.com/AnndyBrock/real-estate-app/internal/infra/redis"
	"github.com/AnndyBrock/real-estate-app/internal/infra/security"
	"github.com/AnndyBrock/real-estate-app/internal/transport/http/handlers"
	"github.com/AnndyBrock/real-estate-app/internal/transport/http/middleware"
	"github.com/AnndyBrock/real-estate-app/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth     *usecase.AuthService
	Sessions *usecase.SessionService
	Users    *usecase.UserService
	Posts    *usecase.PostService
	Leads    *usecase.LeadService
	Uploads  *usecase.UploadService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Services    ServiceSet
	TokenCodec  *security.TokenCodec
	Database    *pgxpool.Pool
	Cache       *appRedis.Client
	Metrics     *middleware.HTTPMetrics
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}
	if origin := deps.Config.App.Origin; origin != "" {
		r.Use(middleware.CORS([]string{origin}))
	}

	requireAuth := middleware.RequireAuth(deps.TokenCodec)
	// Optional auth lets owners see their own drafts on public routes.
	maybeAuth := optionalAuth(deps.TokenCodec)

	healthHandler := handlers.NewHealthHandler(deps.Database, deps.Cache)
	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	cookies := handlers.NewCookieWriter(
		deps.Config.App.Env,
		int(deps.TokenCodec.AccessTTL().Seconds()),
		int(deps.TokenCodec.RefreshTTL().Seconds()),
	)

	api := r.Group("/api/v1")
	{
		authHandler := handlers.NewAuthHandler(deps.Services.Auth, cookies)

		authGroup := api.Group("/auth")
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", loginMiddlewares(deps, authHandler.Login)...)
		authGroup.GET("/logout", authHandler.Logout)
		authGroup.GET("/refresh", authHandler.Refresh)
		authGroup.GET("/email/verify/:code", authHandler.VerifyEmail)
		authGroup.POST("/password/forgot", resetMiddlewares(deps, authHandler.ForgotPassword)...)
		authGroup.POST("/password/reset", authHandler.ResetPassword)

		userHandler := handlers.NewUserHandler(deps.Services.Users)
		api.GET("/user", requireAuth, userHandler.Me)

		sessionHandler := handlers.NewSessionHandler(deps.Services.Sessions)
		sessionGroup := api.Group("/sessions")
		sessionGroup.Use(requireAuth)
		sessionGroup.GET("", sessionHandler.List)
		sessionGroup.DELETE("/:id", sessionHandler.Revoke)

		postHandler := handlers.NewPostHandler(deps.Services.Posts)
		leadHandler := handlers.NewLeadHandler(deps.Services.Leads)
		uploadHandler := handlers.NewUploadHandler(deps.Services.Uploads)

		postGroup := api.Group("/posts")
		postGroup.GET("", postHandler.List)
		postGroup.GET("/:id", maybeAuth, postHandler.Get)
		postGroup.POST("", requireAuth, postHandler.Create)
		postGroup.POST("/:id/publish", requireAuth, postHandler.Publish)
		postGroup.DELETE("/:id", requireAuth, postHandler.Delete)
		postGroup.POST("/:id/leads", leadHandler.Capture)
		postGroup.POST("/:id/photos/presign", requireAuth, uploadHandler.Presign)
		postGroup.PUT("/:id/photos", requireAuth, uploadHandler.Attach)
		postGroup.GET("/:id/photos", maybeAuth, uploadHandler.Photos)
		postGroup.DELETE("/:id/photos", requireAuth, uploadHandler.RemovePhoto)

		leadGroup := api.Group("/leads")
		leadGroup.Use(requireAuth)
		leadGroup.GET("", leadHandler.List)
		leadGroup.GET("/:id", leadHandler.Get)
	}

	return r
}

// optionalAuth decodes a valid access token cookie when present but never
// rejects the request.
func optionalAuth(codec *security.TokenCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("accessToken")
		if err != nil || token == "" {
			c.Next()
			return
		}

		claims, err := codec.VerifyAccess(token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(middleware.UserIDKey, claims.UserID)
		c.Set(middleware.SessionIDKey, claims.SessionID)
		c.Next()
	}
}

func loginMiddlewares(deps Dependencies, handler gin.HandlerFunc) []gin.HandlerFunc {
	return withRateLimit(deps, "auth_login_ip", deps.Config.RateLimit.LoginMaxAttempts, time.Minute, handler)
}

func resetMiddlewares(deps Dependencies, handler gin.HandlerFunc) []gin.HandlerFunc {
	return withRateLimit(deps, "password_reset_ip", deps.Config.RateLimit.PasswordResetMaxAttempts, time.Hour, handler)
}

func withRateLimit(deps Dependencies, name string, limit int, fallbackWindow time.Duration, handler gin.HandlerFunc) []gin.HandlerFunc {
	if deps.RateLimiter == nil || limit <= 0 {
		return []gin.HandlerFunc{handler}
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = fallbackWindow
	}

	return []gin.HandlerFunc{deps.RateLimiter.Limit(name, limit, window), handler}
}
