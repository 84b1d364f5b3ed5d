package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/userhub/identity-system/internal/api/handler"
	"github.com/userhub/identity-system/internal/api/middleware"
	"github.com/userhub/identity-system/internal/core/domain"
	"github.com/userhub/identity-system/internal/core/service"
	"github.com/userhub/identity-system/internal/infrastructure/config"
	mongodb "github.com/userhub/identity-system/internal/infrastructure/db/mongo"
	redisdb "github.com/userhub/identity-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("userhub"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	sessionStore := redisdb.NewSessionStore(rdb, cfg.SessionTTL)
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	authService := service.NewAuthService(userRepo, sessionStore, hasher, log)
	userService := service.NewUserService(userRepo, sessionStore, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	pageHandler := handler.NewPageHandler(cfg.StaticDir)

	// Every route sees the session (or its absence); the gates decide.
	e.Use(middleware.SessionLoader(sessionStore, log))

	requireAuth := middleware.RequireAuthenticated("/login")
	requireAdmin := middleware.RequireAdmin()

	// --- Page routes (navigational gates: deny redirects to login) ---
	e.GET("/", pageHandler.Login)
	e.GET("/login", pageHandler.Login)
	e.GET("/register", pageHandler.Register)
	e.GET("/admin", pageHandler.Admin, requireAdmin)
	e.GET("/edit-user", pageHandler.EditUser, requireAdmin)
	e.GET("/new-user", pageHandler.NewUser, requireAuth, middleware.RequireRole(domain.RoleDefault))
	e.GET("/user", pageHandler.User, requireAuth, middleware.RequireRole(domain.RoleUser))

	// --- Auth routes ---
	e.POST("/login", authHandler.Login)
	e.POST("/register", authHandler.Register)
	e.GET("/logout", authHandler.Logout)

	// --- Directory routes (API gates: deny answers 403) ---
	e.GET("/api/users", userHandler.List, requireAdmin)
	e.GET("/api/user/:id", userHandler.Get, requireAdmin)
	e.GET("/api/curentuser", userHandler.Current)
	e.POST("/edit-user", userHandler.Update, requireAdmin)
	e.POST("/roleupdate", userHandler.AdoptRole, requireAuth)
	e.DELETE("/api/user/:id", userHandler.Delete, requireAdmin)
	e.DELETE("/curentuser", userHandler.DeleteSelf, requireAuth)

	// --- Observability (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// Remaining assets (css, js, images) under the static root.
	e.Static("/public", cfg.StaticDir)

	return e
}
