package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/imaginehq/imagine-backend/internal/models"
	apperrors "github.com/imaginehq/imagine-backend/pkg/errors"
)

// ImageUserStore combines the user lookup with the credit ledger debit.
type ImageUserStore interface {
	GetByID(id uint) (*models.User, error)
	TryDebit(userID uint, amount int) (int, error)
}

// Generator turns a prompt into binary image data.
type Generator interface {
	GenerateFromPrompt(ctx context.Context, prompt string) ([]byte, error)
}

// ImageArchive stores a copy of the generated image.
type ImageArchive interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type GenerationStore interface {
	Create(gen *models.Generation) error
	GetByUserID(userID uint) ([]models.Generation, error)
}

type ImageService struct {
	users       ImageUserStore
	generations GenerationStore
	generator   Generator
	archive     ImageArchive // nil disables archiving
	logger      *zap.Logger
}

func NewImageService(users ImageUserStore, generations GenerationStore, generator Generator, archive ImageArchive, logger *zap.Logger) *ImageService {
	return &ImageService{
		users:       users,
		generations: generations,
		generator:   generator,
		archive:     archive,
		logger:      logger,
	}
}

// GenerateImage proxies the prompt to the external API and debits one
// credit. The external call happens first so the user is only charged for
// a generation that actually produced image data.
func (s *ImageService) GenerateImage(ctx context.Context, userID uint, prompt string) (*models.GenerateImageResponse, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, apperrors.NewValidationError("Missing Details")
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationError("Missing Details")
		}
		return nil, err
	}

	// Refuse before spending anything on the external API.
	if user.CreditBalance <= 0 {
		return nil, apperrors.NewInsufficientCreditsError("No Credit Balance")
	}

	data, err := s.generator.GenerateFromPrompt(ctx, prompt)
	if err != nil {
		return nil, apperrors.NewUpstreamError(err.Error(), err)
	}

	balance, err := s.users.TryDebit(userID, 1)
	if err != nil {
		// The upstream call already succeeded, so this request cost us
		// an API call that was never billed.
		s.logger.Error("debit failed after successful generation",
			zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	s.recordGeneration(ctx, user.ID, prompt, data)

	resultImage := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)

	return &models.GenerateImageResponse{
		Success:       true,
		Message:       "Image Generated",
		CreditBalance: balance,
		ResultImage:   resultImage,
	}, nil
}

func (s *ImageService) History(userID uint) ([]models.Generation, error) {
	return s.generations.GetByUserID(userID)
}

// recordGeneration archives the image and writes the audit row. Both are
// best effort, a failure here never fails the request.
func (s *ImageService) recordGeneration(ctx context.Context, userID uint, prompt string, data []byte) {
	gen := &models.Generation{
		UserID: userID,
		Prompt: prompt,
		Size:   len(data),
	}

	if s.archive != nil {
		key := fmt.Sprintf("generations/%d/%d.png", userID, time.Now().UnixNano())
		if _, err := s.archive.Upload(ctx, key, data, "image/png"); err != nil {
			s.logger.Warn("image archive failed", zap.Uint("user_id", userID), zap.Error(err))
		} else {
			gen.StorageKey = key
		}
	}

	if err := s.generations.Create(gen); err != nil {
		s.logger.Warn("generation record failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}
