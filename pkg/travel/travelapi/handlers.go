// Package travelapi exposes the destination and post services as Fiber
// routes. Every route sits behind the token middleware.
package travelapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jelajahid/jelajah/pkg/errx"
	"github.com/jelajahid/jelajah/pkg/iam/auth"
	"github.com/jelajahid/jelajah/pkg/travel"
	"github.com/jelajahid/jelajah/pkg/travel/travelsrv"
)

// Handlers wires the travel services to HTTP.
type Handlers struct {
	destinations *travelsrv.DestinationService
	posts        *travelsrv.PostService
}

// NewHandlers creates the travel HTTP handlers.
func NewHandlers(destinations *travelsrv.DestinationService, posts *travelsrv.PostService) *Handlers {
	return &Handlers{destinations: destinations, posts: posts}
}

// RegisterRoutes binds the protected travel routes.
func (h *Handlers) RegisterRoutes(app fiber.Router, mw *auth.TokenMiddleware) {
	api := app.Group("/api", mw.Authenticate())

	destinasi := api.Group("/destinasi")
	destinasi.Post("/", h.CreateDestination)
	destinasi.Get("/", h.ListDestinations)
	destinasi.Get("/:id", h.GetDestination)
	destinasi.Put("/:id", h.UpdateDestination)
	destinasi.Delete("/:id", h.DeleteDestination)

	api.Get("/posts", h.ListPosts)
}

// CreateDestination handles POST /api/destinasi.
func (h *Handlers) CreateDestination(c *fiber.Ctx) error {
	var dest travel.Destination
	if err := c.BodyParser(&dest); err != nil {
		return errx.Validation("Invalid request body")
	}

	id, err := h.destinations.Create(c.Context(), dest)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Destination created successfully",
		"id":      id,
	})
}

// ListDestinations handles GET /api/destinasi.
func (h *Handlers) ListDestinations(c *fiber.Ctx) error {
	docs, err := h.destinations.List(c.Context())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(docs)
}

// GetDestination handles GET /api/destinasi/:id. The stored record is
// returned as-is.
func (h *Handlers) GetDestination(c *fiber.Ctx) error {
	doc, err := h.destinations.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(doc)
}

// UpdateDestination handles PUT /api/destinasi/:id.
func (h *Handlers) UpdateDestination(c *fiber.Ctx) error {
	var dest travel.Destination
	if err := c.BodyParser(&dest); err != nil {
		return errx.Validation("Invalid request body")
	}

	if err := h.destinations.Update(c.Context(), c.Params("id"), dest); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Destination updated successfully",
	})
}

// DeleteDestination handles DELETE /api/destinasi/:id.
func (h *Handlers) DeleteDestination(c *fiber.Ctx) error {
	if err := h.destinations.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Destination deleted successfully",
	})
}

// ListPosts handles GET /api/posts.
func (h *Handlers) ListPosts(c *fiber.Ctx) error {
	docs, err := h.posts.List(c.Context())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(docs)
}
