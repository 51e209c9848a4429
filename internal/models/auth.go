package models

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	Success bool     `json:"success"`
	Token   string   `json:"token"`
	User    UserView `json:"user"`
}

// CreditsResponse mirrors the credits endpoint contract: the balance plus
// the user's display name.
type CreditsResponse struct {
	Success bool   `json:"success"`
	Credits int    `json:"credits"`
	User    string `json:"user"`
}
