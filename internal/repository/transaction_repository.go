package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/imaginehq/imagine-backend/internal/models"
	apperrors "github.com/imaginehq/imagine-backend/pkg/errors"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{
		db: db,
	}
}

func (r *TransactionRepository) Create(txn *models.Transaction) error {
	return r.db.Create(txn).Error
}

func (r *TransactionRepository) GetByID(id uint) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.db.First(&txn, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("Transaction not found")
		}
		return nil, err
	}
	return &txn, nil
}

func (r *TransactionRepository) GetByGatewayRef(ref string) (*models.Transaction, error) {
	var txn models.Transaction
	if err := r.db.Where("gateway_ref = ?", ref).First(&txn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("Transaction not found")
		}
		return nil, err
	}
	return &txn, nil
}

func (r *TransactionRepository) SetGatewayRef(id uint, ref string) error {
	return r.db.Model(&models.Transaction{}).Where("id = ?", id).Update("gateway_ref", ref).Error
}

func (r *TransactionRepository) GetUserHistory(userID uint) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&txns).Error
	return txns, err
}

// Settle flips the payment flag and applies the purchased credits inside
// one database transaction. The flag flip is a conditional UPDATE, so a
// second settlement attempt for the same transaction loses the race and
// gets ALREADY_PROCESSED no matter how the calls interleave.
func (r *TransactionRepository) Settle(id uint) (*models.Transaction, error) {
	var txn models.Transaction
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&txn, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFoundError("Transaction not found")
			}
			return err
		}

		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND payment = ?", id, false).
			Update("payment", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.NewAlreadyProcessedError("Payment already verified")
		}

		credit := tx.Model(&models.User{}).
			Where("id = ?", txn.UserID).
			UpdateColumn("credit_balance", gorm.Expr("credit_balance + ?", txn.Credits))
		if credit.Error != nil {
			return credit.Error
		}
		if credit.RowsAffected == 0 {
			// Rolls back the flag flip, nothing is half-applied.
			return apperrors.NewNotFoundError("User not found")
		}

		txn.Payment = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}
