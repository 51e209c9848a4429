package models

type GenerateImageRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// GenerateImageResponse carries the data-URI image and the post-debit
// balance.
type GenerateImageResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	CreditBalance int    `json:"creditBalance"`
	ResultImage   string `json:"resultImage"`
}
