package models

type PayRequest struct {
	PlanID string `json:"planId" validate:"required"`
}

// OrderResponse wraps the raw gateway order descriptor so the checkout
// widget can consume it unchanged.
type OrderResponse struct {
	Success bool        `json:"success"`
	Order   interface{} `json:"order"`
}

type VerifyRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

type CheckoutRequest struct {
	PlanID string `json:"planId" validate:"required"`
}

type CheckoutResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}
