package server

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/kajbd/kajbd-backend/internal/config"
	"github.com/kajbd/kajbd-backend/internal/handlers"
	"github.com/kajbd/kajbd-backend/internal/middleware"
	"github.com/kajbd/kajbd-backend/internal/models"
	"github.com/kajbd/kajbd-backend/internal/realtime"
	"github.com/kajbd/kajbd-backend/internal/storage"
)

// New assembles the Fiber app and its route table. Kept out of main so tests
// can boot the whole HTTP surface in-process against any storage backend.
func New(cfg config.Config, store storage.Storage, hub *realtime.Hub, broker *realtime.Broker) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return c.Status(code).JSON(fiber.Map{"message": err.Error()})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	authH := &handlers.AuthHandler{
		Store:        store,
		JWTSecret:    cfg.JWTSecret,
		Expires:      cfg.JWTExpiresMin,
		SecureCookie: cfg.CookieSecure,
	}
	googleH := &handlers.GoogleOAuthHandler{
		Store:           store,
		JWTSecret:       cfg.JWTSecret,
		Expires:         cfg.JWTExpiresMin,
		SecureCookie:    cfg.CookieSecure,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}
	jobH := handlers.NewJobHandler(store)
	taskH := handlers.NewTaskHandler(store)
	appH := handlers.NewApplicationHandler(store)
	orderH := handlers.NewOrderHandler(store)
	msgH := handlers.NewMessageHandler(store, broker)
	categoryH := handlers.NewCategoryHandler(store)

	api := app.Group("/api")

	// public
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)
	api.Get("/auth/google/start", googleH.GoogleStart)
	api.Get("/auth/google/callback", googleH.GoogleCallback)
	api.Get("/categories", categoryH.GetCategories)
	api.Get("/jobs", jobH.List)
	api.Get("/jobs/:id", jobH.Get)
	api.Get("/tasks", taskH.List)
	api.Get("/tasks/:id", taskH.Get)

	// protected
	protected := api.Group("/",
		middleware.JWTFromCookie(cfg.JWTSecret),
		middleware.AttachJWTLocals(),
	)

	protected.Get("/auth/me", authH.Me)
	protected.Patch("/profile", authH.UpdateProfile)

	protected.Post("/jobs",
		middleware.RequireRoles(string(models.RoleEmployer)),
		jobH.Create,
	)
	protected.Put("/jobs/:id", jobH.Update)
	protected.Delete("/jobs/:id", jobH.Delete)
	protected.Get("/my-jobs", jobH.Mine)
	protected.Get("/jobs/:id/applications", jobH.Applications)
	protected.Post("/jobs/:id/apply", appH.Apply)
	protected.Get("/my-applications", appH.Mine)
	protected.Patch("/applications/:id/status", appH.UpdateStatus)

	protected.Post("/tasks",
		middleware.RequireRoles(string(models.RoleFreelancer)),
		taskH.Create,
	)
	protected.Put("/tasks/:id", taskH.Update)
	protected.Delete("/tasks/:id", taskH.Delete)
	protected.Get("/my-tasks", taskH.Mine)
	protected.Post("/tasks/:id/order", orderH.Create)
	protected.Get("/my-orders", orderH.Mine)
	protected.Get("/my-sales", orderH.Sales)
	protected.Patch("/orders/:id/status", orderH.UpdateStatus)
	protected.Get("/orders/:id/messages", msgH.List)
	protected.Post("/orders/:id/messages", msgH.Create)

	// Websocket push; auth via query param.
	if hub != nil {
		wsH := handlers.NewWSHandler(hub, cfg.JWTSecret)
		app.Get("/ws", websocket.New(wsH.Handle))
	}

	return app
}
