package handlers

import (
	"errors"
	"log"

	"github.com/destinyOrji/Cademoh/services"

	"github.com/gofiber/fiber/v2"
)

// dataJSON wraps a payload in the platform's response envelope.
func dataJSON(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func errorJSON(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": msg})
}

// respondError maps the engine's error taxonomy onto statuses. A closed
// session is 400 (the platform's wire contract), unknown session/player/
// metric is 404, bad input 400, everything else a logged 500.
func respondError(c *fiber.Ctx, err error) error {
	var validation *services.ValidationError
	var notFound *services.NotFoundError
	var conflict *services.ConflictError

	switch {
	case errors.As(err, &validation):
		return errorJSON(c, fiber.StatusBadRequest, validation.Error())
	case errors.As(err, &notFound):
		return errorJSON(c, fiber.StatusNotFound, notFound.Error())
	case errors.As(err, &conflict):
		return errorJSON(c, fiber.StatusBadRequest, conflict.Error())
	default:
		log.Printf("❌ Internal error handling %s: %v", c.Path(), err)
		return errorJSON(c, fiber.StatusInternalServerError, "internal server error")
	}
}
