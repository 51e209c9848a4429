package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74/webhook"

	"github.com/imaginehq/imagine-backend/internal/models"
	"github.com/imaginehq/imagine-backend/internal/service"
	"github.com/imaginehq/imagine-backend/pkg/utils"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
	validator      *utils.Validator
	webhookSecret  string
}

func NewPaymentHandler(paymentService *service.PaymentService, validator *utils.Validator, webhookSecret string) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		validator:      validator,
		webhookSecret:  webhookSecret,
	}
}

// PayRazorpay creates a purchase order for a plan and returns the raw
// gateway order descriptor for the checkout widget.
func (h *PaymentHandler) PayRazorpay(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	var req models.PayRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Missing Details"))
	}

	order, err := h.paymentService.CreateOrder(userID, req.PlanID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.OrderResponse{
		Success: true,
		Order:   order,
	})
}

func (h *PaymentHandler) VerifyRazorpay(c *fiber.Ctx) error {
	var req models.VerifyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Missing payment details"))
	}

	if err := h.paymentService.VerifyAndSettle(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature); err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(nil, "Credits added successfully"))
}

func (h *PaymentHandler) GetPlans(c *fiber.Ctx) error {
	return c.JSON(models.SuccessResponse(h.paymentService.GetPlans(), ""))
}

func (h *PaymentHandler) GetHistory(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	txns, err := h.paymentService.GetUserHistory(userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(txns, ""))
}

// CreateCheckout opens a Stripe checkout session, the card alternative to
// the razorpay order flow.
func (h *PaymentHandler) CreateCheckout(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return respondUnauthenticated(c)
	}

	var req models.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Missing Details"))
	}

	resp, err := h.paymentService.CreateCheckout(userID, req.PlanID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

func (h *PaymentHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, h.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid webhook signature"))
	}

	if err := h.paymentService.HandleStripeWebhook(&event); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}
