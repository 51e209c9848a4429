package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/imaginehq/imagine-backend/internal/models"
	"github.com/imaginehq/imagine-backend/internal/service"
	"github.com/imaginehq/imagine-backend/pkg/utils"
)

type ImageHandler struct {
	imageService *service.ImageService
	validator    *utils.Validator
}

func NewImageHandler(imageService *service.ImageService, validator *utils.Validator) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		validator:    validator,
	}
}

func (h *ImageHandler) GenerateImage(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	var req models.GenerateImageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Missing Details"))
	}

	resp, err := h.imageService.GenerateImage(c.Context(), userID, req.Prompt)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

func (h *ImageHandler) GetHistory(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	gens, err := h.imageService.History(userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(gens, ""))
}
