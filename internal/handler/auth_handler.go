package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/imaginehq/imagine-backend/internal/models"
	"github.com/imaginehq/imagine-backend/internal/service"
	"github.com/imaginehq/imagine-backend/pkg/utils"
)

type AuthHandler struct {
	authService *service.AuthService
	validator   *utils.Validator
}

func NewAuthHandler(authService *service.AuthService, validator *utils.Validator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Missing Details"))
	}

	resp, err := h.authService.Register(req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Missing Details"))
	}

	resp, err := h.authService.Login(req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

// GetCredits reports the caller's balance. The user comes from the token,
// not the request body.
func (h *AuthHandler) GetCredits(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	resp, err := h.authService.GetCredits(userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}
