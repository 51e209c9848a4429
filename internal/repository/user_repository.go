package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/imaginehq/imagine-backend/internal/models"
	apperrors "github.com/imaginehq/imagine-backend/pkg/errors"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("User does not exist")
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("User not found")
		}
		return nil, err
	}
	return &user, nil
}

// TryDebit decrements the balance as a single conditional UPDATE so two
// overlapping requests can never both spend the last credit. Returns the
// post-debit balance.
func (r *UserRepository) TryDebit(userID uint, amount int) (int, error) {
	if amount <= 0 {
		return 0, apperrors.NewValidationError("debit amount must be positive")
	}

	var user models.User
	res := r.db.Model(&user).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "credit_balance"}}}).
		Where("id = ? AND credit_balance >= ?", userID, amount).
		UpdateColumn("credit_balance", gorm.Expr("credit_balance - ?", amount))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		// Either the user is gone or the balance is short.
		if _, err := r.GetByID(userID); err != nil {
			return 0, err
		}
		return 0, apperrors.NewInsufficientCreditsError("No Credit Balance")
	}
	return user.CreditBalance, nil
}

// Credit increments the balance unconditionally and returns the new value.
func (r *UserRepository) Credit(userID uint, amount int) (int, error) {
	if amount <= 0 {
		return 0, apperrors.NewValidationError("credit amount must be positive")
	}

	var user models.User
	res := r.db.Model(&user).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "credit_balance"}}}).
		Where("id = ?", userID).
		UpdateColumn("credit_balance", gorm.Expr("credit_balance + ?", amount))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, apperrors.NewNotFoundError("User not found")
	}
	return user.CreditBalance, nil
}
