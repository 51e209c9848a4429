package models

import "time"

const (
	GatewayRazorpay = "razorpay"
	GatewayStripe   = "stripe"
)

// Transaction records a credit purchase intent. Payment flips false->true
// exactly once at settlement and the row is kept as an audit record.
type Transaction struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	Plan       string    `json:"plan" gorm:"not null"`
	Amount     int       `json:"amount" gorm:"not null"`
	Credits    int       `json:"credits" gorm:"not null"`
	Payment    bool      `json:"payment" gorm:"not null;default:false"`
	Gateway    string    `json:"gateway" gorm:"not null;default:'razorpay'"`
	GatewayRef string    `json:"-" gorm:"index"`
	CreatedAt  time.Time `json:"date"`
	UpdatedAt  time.Time `json:"-"`
}
