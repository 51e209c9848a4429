package repository

import (
	"gorm.io/gorm"

	"github.com/imaginehq/imagine-backend/internal/models"
)

type GenerationRepository struct {
	db *gorm.DB
}

func NewGenerationRepository(db *gorm.DB) *GenerationRepository {
	return &GenerationRepository{
		db: db,
	}
}

func (r *GenerationRepository) Create(gen *models.Generation) error {
	return r.db.Create(gen).Error
}

func (r *GenerationRepository) GetByUserID(userID uint) ([]models.Generation, error) {
	var gens []models.Generation
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&gens).Error
	return gens, err
}
