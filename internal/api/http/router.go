package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farekit/transit-service/internal/api/http/handlers"
	"github.com/farekit/transit-service/internal/auth"
)

// RegisterAuthRoutes mounts the auth service surface.
func RegisterAuthRoutes(app *fiber.App, authHandler *handlers.AuthHandler, health *handlers.HealthHandler) {
	app.Get("/health/live", health.Live)
	app.Get("/health/ready", health.Ready)

	api := app.Group("/api/auth")
	api.Post("/signup", authHandler.Signup)
	api.Post("/login", authHandler.Login)
}

// RegisterUserRoutes mounts the user service surface: public profile routes
// behind the bearer extractor plus the internal directory behind the shared
// secret.
func RegisterUserRoutes(app *fiber.App, codec *auth.Codec, internalSecret string, usersHandler *handlers.UsersHandler, internalHandler *handlers.InternalUsersHandler, health *handlers.HealthHandler) {
	app.Get("/health/live", health.Live)
	app.Get("/health/ready", health.Ready)

	api := app.Group("/api/users", auth.Authenticate(codec))
	api.Get("/", auth.RequireAuthenticated(), usersHandler.List)
	api.Post("/", auth.RequireAdmin(), usersHandler.Create)

	// /me before /:id so the literal segment wins.
	me := api.Group("/me", auth.RequireAuthenticated())
	me.Get("/", usersHandler.Me)
	me.Put("/", usersHandler.UpdateMe)
	me.Put("/password", usersHandler.ChangeMyPassword)
	me.Get("/cards", usersHandler.ListMyCards)
	me.Post("/cards", usersHandler.AddMyCard)
	me.Delete("/cards/:cardId", usersHandler.RemoveMyCard)
	me.Patch("/cards/:cardId/status", usersHandler.SetMyCardStatus)

	api.Put("/:id", auth.RequireAuthenticated(), usersHandler.Update)
	api.Delete("/:id", auth.RequireAdmin(), usersHandler.Delete)

	internal := app.Group("/api/internal/users", auth.InternalOnly(internalSecret))
	internal.Get("/by-email", internalHandler.ByEmail)
	internal.Post("/create", internalHandler.Create)
	internal.Post("/verify", internalHandler.Verify)
}

// RegisterCardRoutes mounts the card service surface.
func RegisterCardRoutes(app *fiber.App, codec *auth.Codec, internalSecret string, cardsHandler *handlers.CardsHandler, internalHandler *handlers.InternalCardsHandler, health *handlers.HealthHandler) {
	app.Get("/health/live", health.Live)
	app.Get("/health/ready", health.Ready)

	api := app.Group("/api/cards", auth.Authenticate(codec), auth.RequireAuthenticated())
	api.Get("/active/by-type/:type", cardsHandler.ActiveByType)
	api.Get("/users/:userId", cardsHandler.ListUserCards)
	api.Post("/users/:userId", cardsHandler.Add)
	api.Delete("/users/:userId/:cardId", cardsHandler.Remove)
	api.Patch("/users/:userId/:cardId/status", cardsHandler.ToggleStatus)

	internal := app.Group("/internal/cards", auth.InternalOnly(internalSecret))
	internal.Get("/user/:userId", internalHandler.ListUserCards)
	internal.Post("/", internalHandler.Create)
	internal.Put("/:cardId/activate", internalHandler.Activate)
	internal.Put("/:cardId/deactivate", internalHandler.Deactivate)
	internal.Put("/:cardId", internalHandler.Update)
	internal.Delete("/:cardId/user/:userId", internalHandler.Remove)
}
