package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/bioscizone-api/internal/config"
	"github.com/noah-isme/bioscizone-api/internal/handler"
	"github.com/noah-isme/bioscizone-api/internal/middleware"
	"github.com/noah-isme/bioscizone-api/internal/models"
	"github.com/noah-isme/bioscizone-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	BuddyHandler        *handler.BuddyHandler
	ArticleHandler      *handler.ArticleHandler
	LabHandler          *handler.LabHandler
	SearchHandler       *handler.SearchHandler
	FeedbackHandler     *handler.FeedbackHandler
	AuthHandler         *handler.AuthHandler
	AdminAccountHandler *handler.AdminAccountHandler
	SettingHandler      *handler.SettingHandler
	AuditLogHandler     *handler.AuditLogHandler
	UploadHandler       *handler.UploadHandler
	SeedHandler         *handler.SeedHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	// Public site
	if deps.BuddyHandler != nil {
		deps.BuddyHandler.RegisterPublic(api)
	}
	if deps.ArticleHandler != nil {
		deps.ArticleHandler.RegisterPublic(api)
	}
	if deps.LabHandler != nil {
		deps.LabHandler.Register(api)
	}
	if deps.SearchHandler != nil {
		deps.SearchHandler.Register(api)
	}
	if deps.FeedbackHandler != nil {
		deps.FeedbackHandler.RegisterPublic(api)
	}

	// Seed tooling carries its own token check.
	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(api.Group("/seed"))
	}

	admin := api.Group("/admin")
	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterPublic(admin, middleware.RateLimit("login", cfg.LoginRateLimit, loginWindow(cfg)))
	}

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = middleware.JWTProtected(cfg.JWTSecret)
	}

	// Admin tier: any valid token
	protected := admin.Group("", jwtMiddleware)
	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterProtected(protected)
	}
	if deps.BuddyHandler != nil {
		deps.BuddyHandler.RegisterAdmin(protected)
	}
	if deps.ArticleHandler != nil {
		deps.ArticleHandler.RegisterAdmin(protected)
	}
	if deps.FeedbackHandler != nil {
		deps.FeedbackHandler.RegisterAdmin(protected)
	}
	if deps.UploadHandler != nil {
		deps.UploadHandler.Register(protected)
	}

	// Superadmin tier
	superadmin := protected.Group("", middleware.RequireRole(models.RoleSuperadmin))
	if deps.AdminAccountHandler != nil {
		deps.AdminAccountHandler.Register(superadmin)
	}
	if deps.SettingHandler != nil {
		deps.SettingHandler.Register(superadmin)
	}
	if deps.AuditLogHandler != nil {
		deps.AuditLogHandler.Register(superadmin)
	}
}

func loginWindow(cfg config.Config) time.Duration {
	if cfg.LoginRateWindow <= 0 {
		return time.Minute
	}
	return cfg.LoginRateWindow
}
