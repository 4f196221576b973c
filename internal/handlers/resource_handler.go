package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/listing"
)

// CRUDService is the contract every resource service satisfies.
type CRUDService[M any, I any] interface {
	GetMany(params listing.Params) ([]M, listing.Pagination, error)
	GetOne(id uint) (*M, error)
	Create(input I) (*M, error)
	Update(id uint, input I) (*M, error)
	Delete(id uint) error
}

// ResourceHandler exposes the uniform five-endpoint CRUD group for one
// resource. M is the entity model, I its partial input payload.
type ResourceHandler[M any, I any] struct {
	// plural is the path segment, singular names the entity in messages.
	plural   string
	singular string
	service  CRUDService[M, I]
}

// NewResourceHandler creates a handler for one resource.
func NewResourceHandler[M any, I any](plural, singular string, service CRUDService[M, I]) *ResourceHandler[M, I] {
	return &ResourceHandler[M, I]{
		plural:   plural,
		singular: singular,
		service:  service,
	}
}

// RegisterRoutes registers the resource's endpoint group with the router.
func (h *ResourceHandler[M, I]) RegisterRoutes(router fiber.Router) {
	routes := router.Group("/" + h.plural)
	routes.Get("/", h.HandleGetMany)
	routes.Get("/:id", h.HandleGetOne)
	routes.Post("/", h.HandleCreate)
	routes.Put("/:id", h.HandleUpdate)
	routes.Delete("/:id", h.HandleDelete)
}

// HandleGetMany returns one page of the resource.
func (h *ResourceHandler[M, I]) HandleGetMany(c *fiber.Ctx) error {
	params, err := parseListParams(c)
	if err != nil {
		return respondError(c, err)
	}
	rows, pagination, err := h.service.GetMany(params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success":    true,
		"data":       rows,
		"pagination": pagination,
	})
}

// HandleGetOne returns a single record or a 404 envelope.
func (h *ResourceHandler[M, I]) HandleGetOne(c *fiber.Ctx) error {
	entity, err := h.service.GetOne(parseID(c))
	if err != nil {
		return respondError(c, err)
	}
	if entity == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fmt.Sprintf("%s not found", h.singular),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    entity,
	})
}

// HandleCreate creates a record from the request body.
func (h *ResourceHandler[M, I]) HandleCreate(c *fiber.Ctx) error {
	var input I
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	entity, err := h.service.Create(input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    entity,
		"message": fmt.Sprintf("%s created successfully", h.singular),
	})
}

// HandleUpdate applies a partial payload to a record; an unknown id is a 404.
func (h *ResourceHandler[M, I]) HandleUpdate(c *fiber.Ctx) error {
	var input I
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	entity, err := h.service.Update(parseID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	if entity == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fmt.Sprintf("%s not found", h.singular),
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"data":    entity,
		"message": fmt.Sprintf("%s updated successfully", h.singular),
	})
}

// HandleDelete removes a record.
func (h *ResourceHandler[M, I]) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(parseID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("%s deleted successfully", h.singular),
	})
}
