package server

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mansoorceksport/tenantpanel/internal/config"
	"github.com/mansoorceksport/tenantpanel/internal/domain"
	"github.com/mansoorceksport/tenantpanel/internal/handler"
	"github.com/mansoorceksport/tenantpanel/internal/middleware"
	"github.com/mansoorceksport/tenantpanel/internal/repository"
	"github.com/mansoorceksport/tenantpanel/internal/service"
	"github.com/mansoorceksport/tenantpanel/internal/telemetry"
	"github.com/mansoorceksport/tenantpanel/internal/view"
	"go.uber.org/zap"
)

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config       *config.Config
	Logger       *zap.Logger
	Metrics      *telemetry.Metrics
	TenantClient domain.TenantClient
	NameCache    domain.TenantNameCache   // optional
	Assets       domain.AssetRepository   // optional, tried before the bundled icons
	Verifier     service.IdentityVerifier // nil disables SSO
	DocRegistry  domain.DocRegistry       // optional, defaults to the bundled manifest
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) (*fiber.App, error) {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = telemetry.NewMetrics(nil)
	}

	registry := deps.DocRegistry
	if registry == nil {
		defaultRegistry, err := service.DefaultDocRegistry()
		if err != nil {
			return nil, err
		}
		registry = defaultRegistry
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}

	// Initialize services
	resolver := service.NewTenantResolver(deps.TenantClient, deps.NameCache, deps.Config.Redis.TenantNameTTL, metrics, log)
	sessions := service.NewSessionService(deps.Config.Session.Secret, deps.Config.Session.TTL, log)
	ssoService := service.NewSSOService(deps.Verifier, log)
	catalog := service.NewDocCatalog(registry, metrics, log)

	// Bundled icons always back the configured asset store
	assetRepos := []domain.AssetRepository{}
	if deps.Assets != nil {
		assetRepos = append(assetRepos, deps.Assets)
	}
	assetRepos = append(assetRepos, repository.NewEmbeddedAssetRepository(view.Static()))

	// Initialize handlers
	pageHandler := handler.NewPageHandler(renderer, resolver, deps.Config.Server.AppURL)
	authHandler := handler.NewAuthHandler(ssoService, sessions, handler.CookieConfig{
		Name:   deps.Config.Session.CookieName,
		Secure: deps.Config.Session.Secure,
	}, metrics, log)
	docsHandler := handler.NewDocsHandler(catalog, renderer)
	assetHandler := handler.NewAssetHandler(log, assetRepos...)

	app := fiber.New(fiber.Config{
		AppName:      "Tenant Panel",
		ErrorHandler: newErrorHandler(log),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestID} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: deps.Config.Server.AppURL,
		AllowHeaders: "Origin, Content-Type, Accept, X-Request-ID",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(telemetry.FiberMiddleware())

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "tenantpanel",
		})
	})
	app.Get("/metrics", metrics.Handler())

	// Assets
	app.Use("/static", filesystem.New(filesystem.Config{
		Root: http.FS(view.Static()),
	}))
	app.Get("/icons/:name", assetHandler.Icon)
	app.Get("/docs/cards", docsHandler.Card)

	// Pages read the session cookie
	pages := app.Group("", middleware.SessionReader(sessions, deps.Config.Session.CookieName))
	pages.Get(domain.RouteHome, pageHandler.Login)
	pages.Get(domain.RouteLogin, pageHandler.Login)
	pages.Get(domain.RouteSignUp, pageHandler.SignUp)
	pages.Get(domain.RouteDashboard, pageHandler.Dashboard)
	pages.Get(domain.RouteSettings, pageHandler.Settings)

	app.Post(domain.RouteSSO, authHandler.CompleteSSO)
	app.Post(domain.RouteLogout, authHandler.Logout)

	return app, nil
}

func newErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("request_id", middleware.GetRequestID(c)),
				zap.String("path", c.Path()),
				zap.Error(err))
		}

		return c.Status(code).JSON(fiber.Map{
			"error": message,
		})
	}
}
