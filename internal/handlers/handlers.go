// Package handlers maps HTTP requests onto the resource services and domain
// errors onto status codes. Success responses share one envelope
// ({success, data, pagination?, message?}); errors are {error} with 400 for
// validation, 404 for missing entities, 409 for conflicts and a generic 500
// for anything unexpected, which is also the only case that gets logged.
package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/apperrors"
	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/listing"
)

// respondError performs the single kind-to-status mapping of the API.
func respondError(c *fiber.Ctx, err error) error {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case apperrors.KindNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case apperrors.KindConflict:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	log.Printf("Unexpected error handling %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

// parseID reads the :id path parameter. Anything that is not a positive
// integer comes back as 0 and is rejected by the service before any query.
func parseID(c *fiber.Ctx) uint {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

// reservedQueryKeys are the list-parameter names; every other query key is
// treated as a search field.
var reservedQueryKeys = map[string]bool{
	"page":     true,
	"pageSize": true,
	"orderBy":  true,
	"orderDir": true,
}

// parseListParams builds listing.Params from the request query. Defaults are
// applied for absent page/pageSize; malformed numbers are a ValidationError.
func parseListParams(c *fiber.Ctx) (listing.Params, error) {
	params := listing.Params{
		Page:     listing.DefaultPage,
		PageSize: listing.DefaultPageSize,
		OrderBy:  c.Query("orderBy"),
		OrderDir: c.Query("orderDir"),
	}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return listing.Params{}, apperrors.Validation("page must be an integer")
		}
		params.Page = page
	}
	if raw := c.Query("pageSize"); raw != "" {
		pageSize, err := strconv.Atoi(raw)
		if err != nil {
			return listing.Params{}, apperrors.Validation("pageSize must be an integer")
		}
		params.PageSize = pageSize
	}

	for key, value := range c.Queries() {
		if reservedQueryKeys[key] || value == "" {
			continue
		}
		if params.Search == nil {
			params.Search = make(map[string]string)
		}
		params.Search[key] = value
	}

	return params, nil
}
