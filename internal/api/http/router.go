package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/http/handlers"
	"github.com/spec-kit/marketplace-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Catalog        *handlers.CatalogHandler
	Requests       *handlers.RequestsHandler
	Professional   *handlers.ProfessionalHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Every group past /auth runs behind the
// principal middleware plus a role guard; no handler executes a side effect
// before both pass.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireRole(), cfg.Auth.ChangePassword)

	catalog := app.Group("/services", cfg.AuthMiddleware.Handle, auth.RequireRole())
	catalog.Get("/", cfg.Catalog.List)
	catalog.Get("/:id", cfg.Catalog.Get)

	customer := app.Group("/requests", cfg.AuthMiddleware.Handle, auth.RequireCustomer())
	customer.Post("/", cfg.Requests.Create)
	customer.Get("/", cfg.Requests.List)
	customer.Post("/:id/close", cfg.Requests.Close)
	customer.Post("/:id/review", cfg.Requests.Review)

	professional := app.Group("/professional", cfg.AuthMiddleware.Handle, auth.RequireProfessional())
	professional.Get("/requests", cfg.Professional.List)
	professional.Post("/requests/:id/accept", cfg.Professional.Accept)
	professional.Post("/requests/:id/reject", cfg.Professional.Reject)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Post("/services", cfg.Admin.CreateService)
	admin.Put("/services/:id", cfg.Admin.UpdateService)
	admin.Delete("/services/:id", cfg.Admin.DeleteService)
	admin.Post("/services/:id/image", cfg.Admin.UploadServiceImage)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Post("/users/:id/status", cfg.Admin.SetUserStatus)
	admin.Get("/professionals", cfg.Admin.ListProfessionals)
	admin.Post("/professionals/:id/approve", cfg.Admin.ApproveProfessional)
	admin.Post("/professionals/:id/reject", cfg.Admin.RejectProfessional)
	admin.Get("/requests", cfg.Admin.ListRequests)
	admin.Get("/requests/:id/history", cfg.Admin.RequestHistory)
}
