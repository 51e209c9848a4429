package models

import (
	"time"
)

type User struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"not null"`
	Email         string    `json:"email" gorm:"unique;not null"`
	Password      string    `json:"-" gorm:"not null"`
	CreditBalance int       `json:"credit_balance" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// UserView is the public shape of a user returned from auth endpoints.
type UserView struct {
	Name string `json:"name"`
}

func (u *User) View() UserView {
	return UserView{Name: u.Name}
}
