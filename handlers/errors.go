package handlers

import (
	"errors"

	"github.com/anjiri1684/tutor_marketplace/services"
	"github.com/gofiber/fiber/v2"
)

// workflowError maps the services error taxonomy onto HTTP statuses:
// wrong-state transitions are conflicts, unmet business preconditions are
// unprocessable, anything else is a server error.
func workflowError(c *fiber.Ctx, err error) error {
	var invalidState *services.InvalidStateError
	var blocked *services.ApprovalBlockedError
	var insufficient *services.InsufficientBalanceError

	switch {
	case errors.As(err, &invalidState):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &blocked):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &insufficient):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
