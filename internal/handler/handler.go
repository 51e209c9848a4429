package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/imaginehq/imagine-backend/internal/models"
	apperrors "github.com/imaginehq/imagine-backend/pkg/errors"
)

// currentUserID reads the authenticated user id set by the auth
// middleware.
func currentUserID(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("userID").(uint)
	return userID, ok
}

// respondError renders any service error as the JSON failure envelope.
func respondError(c *fiber.Ctx, err error) error {
	return c.Status(apperrors.StatusCode(err)).JSON(models.ErrorResponse(apperrors.Message(err)))
}

func respondUnauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
}
