package service

import (
	"go.uber.org/zap"

	"github.com/imaginehq/imagine-backend/internal/models"
	"github.com/imaginehq/imagine-backend/pkg/bcrypt"
	apperrors "github.com/imaginehq/imagine-backend/pkg/errors"
	jwtPkg "github.com/imaginehq/imagine-backend/pkg/jwt"
)

// AuthUserStore is the slice of the user repository auth needs.
type AuthUserStore interface {
	Create(user *models.User) error
	EmailExists(email string) (bool, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
}

// WelcomeMailer sends the post-registration email.
type WelcomeMailer interface {
	SendWelcomeEmail(email, name string) error
}

type AuthService struct {
	users  AuthUserStore
	mailer WelcomeMailer
	logger *zap.Logger
}

// NewAuthService wires the auth service. mailer may be nil when email is
// not configured.
func NewAuthService(users AuthUserStore, mailer WelcomeMailer, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:  users,
		mailer: mailer,
		logger: logger,
	}
}

func (s *AuthService) Register(req models.RegisterRequest) (*models.AuthResponse, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("Missing Details")
	}

	exists, err := s.users.EmailExists(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflictError("Email already registered")
	}

	hashedPassword, err := bcrypt.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:          req.Name,
		Email:         req.Email,
		Password:      hashedPassword,
		CreditBalance: 0,
	}

	if err := s.users.Create(user); err != nil {
		return nil, err
	}

	token, err := jwtPkg.GenerateToken(user.Email, user.ID)
	if err != nil {
		return nil, err
	}

	if s.mailer != nil {
		go func() {
			if err := s.mailer.SendWelcomeEmail(user.Email, user.Name); err != nil {
				s.logger.Warn("welcome email failed", zap.String("email", user.Email), zap.Error(err))
			}
		}()
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID))

	return &models.AuthResponse{
		Success: true,
		Token:   token,
		User:    user.View(),
	}, nil
}

func (s *AuthService) Login(req models.LoginRequest) (*models.AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperrors.NewValidationError("Missing Details")
	}

	user, err := s.users.GetByEmail(req.Email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.ComparePassword(user.Password, req.Password); err != nil {
		return nil, apperrors.NewAuthError("Invalid Credentials")
	}

	token, err := jwtPkg.GenerateToken(user.Email, user.ID)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{
		Success: true,
		Token:   token,
		User:    user.View(),
	}, nil
}

// GetCredits returns the balance together with the display name, matching
// the credits endpoint contract.
func (s *AuthService) GetCredits(userID uint) (*models.CreditsResponse, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}

	return &models.CreditsResponse{
		Success: true,
		Credits: user.CreditBalance,
		User:    user.Name,
	}, nil
}
