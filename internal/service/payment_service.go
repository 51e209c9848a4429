package service

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"

	"github.com/imaginehq/imagine-backend/internal/models"
	apperrors "github.com/imaginehq/imagine-backend/pkg/errors"
	"github.com/imaginehq/imagine-backend/pkg/payment"
)

// PaymentUserStore is the user lookup the orchestrator needs. Crediting
// happens inside TransactionStore.Settle.
type PaymentUserStore interface {
	GetByID(id uint) (*models.User, error)
}

type TransactionStore interface {
	Create(txn *models.Transaction) error
	GetByID(id uint) (*models.Transaction, error)
	GetByGatewayRef(ref string) (*models.Transaction, error)
	SetGatewayRef(id uint, ref string) error
	GetUserHistory(userID uint) ([]models.Transaction, error)
	Settle(id uint) (*models.Transaction, error)
}

// OrderGateway is the razorpay-shaped order API.
type OrderGateway interface {
	CreateOrder(amountMinor int64, currency, receipt string) (map[string]interface{}, error)
	FetchOrder(orderID string) (*payment.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// CheckoutGateway is the stripe-shaped checkout API.
type CheckoutGateway interface {
	CreateCheckoutSession(userEmail, planName string, amountCents int64, metadata map[string]string) (*stripe.CheckoutSession, error)
}

type PurchaseMailer interface {
	SendPurchaseEmail(email, name, plan string, credits int) error
}

type PaymentService struct {
	users    PaymentUserStore
	txns     TransactionStore
	razorpay OrderGateway
	stripe   CheckoutGateway // nil when Stripe is not configured
	mailer   PurchaseMailer  // nil when email is not configured
	logger   *zap.Logger
}

func NewPaymentService(users PaymentUserStore, txns TransactionStore, razorpay OrderGateway, stripe CheckoutGateway, mailer PurchaseMailer, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		users:    users,
		txns:     txns,
		razorpay: razorpay,
		stripe:   stripe,
		mailer:   mailer,
		logger:   logger,
	}
}

// CreateOrder records a purchase intent and opens a matching gateway
// order. The transaction id travels as the gateway receipt so settlement
// can find its way back.
func (s *PaymentService) CreateOrder(userID uint, planID string) (map[string]interface{}, error) {
	if userID == 0 || planID == "" {
		return nil, apperrors.NewValidationError("Missing Details")
	}

	plan, ok := models.PlanByID(planID)
	if !ok {
		return nil, apperrors.NewValidationError("Plan not found")
	}

	if _, err := s.users.GetByID(userID); err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		UserID:  userID,
		Plan:    plan.ID,
		Amount:  plan.Amount,
		Credits: plan.Credits,
		Payment: false,
		Gateway: models.GatewayRazorpay,
	}
	if err := s.txns.Create(txn); err != nil {
		return nil, err
	}

	// Gateway wants the amount in the minor currency unit.
	order, err := s.razorpay.CreateOrder(int64(plan.Amount)*100, "INR", strconv.FormatUint(uint64(txn.ID), 10))
	if err != nil {
		return nil, apperrors.NewUpstreamError("Payment initiation failed", err)
	}

	if orderID, ok := order["id"].(string); ok {
		if err := s.txns.SetGatewayRef(txn.ID, orderID); err != nil {
			s.logger.Warn("failed to record gateway ref", zap.Uint("transaction_id", txn.ID), zap.Error(err))
		}
	}

	s.logger.Info("order created",
		zap.Uint("transaction_id", txn.ID),
		zap.Uint("user_id", userID),
		zap.String("plan", plan.ID))

	return order, nil
}

// VerifyAndSettle confirms the gateway order was paid and applies the
// purchased credits exactly once.
func (s *PaymentService) VerifyAndSettle(orderID, paymentID, signature string) error {
	if orderID == "" || paymentID == "" || signature == "" {
		return apperrors.NewValidationError("Missing payment details")
	}

	if !s.razorpay.VerifySignature(orderID, paymentID, signature) {
		return apperrors.NewPaymentError("Payment verification failed")
	}

	order, err := s.razorpay.FetchOrder(orderID)
	if err != nil {
		return apperrors.NewUpstreamError("Payment verification failed", err)
	}

	if order.Status != "paid" {
		return apperrors.NewPaymentError("Payment verification failed")
	}

	txnID, err := strconv.ParseUint(order.Receipt, 10, 32)
	if err != nil {
		return apperrors.NewNotFoundError("Transaction not found")
	}

	txn, err := s.txns.Settle(uint(txnID))
	if err != nil {
		return err
	}

	s.logger.Info("payment settled",
		zap.Uint("transaction_id", txn.ID),
		zap.Uint("user_id", txn.UserID),
		zap.Int("credits", txn.Credits))

	s.sendPurchaseEmail(txn)
	return nil
}

// CreateCheckout opens a Stripe checkout session for a plan, the
// alternative purchase path to the razorpay order flow.
func (s *PaymentService) CreateCheckout(userID uint, planID string) (*models.CheckoutResponse, error) {
	if s.stripe == nil {
		return nil, apperrors.NewValidationError("Card checkout is not available")
	}

	plan, ok := models.PlanByID(planID)
	if !ok {
		return nil, apperrors.NewValidationError("Plan not found")
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		UserID:  userID,
		Plan:    plan.ID,
		Amount:  plan.Amount,
		Credits: plan.Credits,
		Payment: false,
		Gateway: models.GatewayStripe,
	}
	if err := s.txns.Create(txn); err != nil {
		return nil, err
	}

	sess, err := s.stripe.CreateCheckoutSession(
		user.Email,
		plan.ID+" Plan",
		int64(plan.Amount)*100,
		map[string]string{
			"user_id":        fmt.Sprintf("%d", userID),
			"transaction_id": fmt.Sprintf("%d", txn.ID),
		},
	)
	if err != nil {
		return nil, apperrors.NewUpstreamError("Payment initiation failed", err)
	}

	if err := s.txns.SetGatewayRef(txn.ID, sess.ID); err != nil {
		return nil, err
	}

	return &models.CheckoutResponse{
		Success: true,
		URL:     sess.URL,
	}, nil
}

// HandleStripeWebhook settles a transaction when its checkout session
// completes. Redeliveries hit the same idempotency guard as duplicate
// razorpay verifications and are acknowledged without re-crediting.
func (s *PaymentService) HandleStripeWebhook(event *stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return err
		}

		txn, err := s.txns.GetByGatewayRef(session.ID)
		if err != nil {
			return err
		}

		settled, err := s.txns.Settle(txn.ID)
		if err != nil {
			if apperrors.IsType(err, apperrors.ErrAlreadyProcessed) {
				s.logger.Info("webhook redelivery ignored", zap.Uint("transaction_id", txn.ID))
				return nil
			}
			return err
		}

		s.logger.Info("stripe payment settled",
			zap.Uint("transaction_id", settled.ID),
			zap.Uint("user_id", settled.UserID),
			zap.Int("credits", settled.Credits))

		s.sendPurchaseEmail(settled)
	}

	return nil
}

func (s *PaymentService) GetPlans() []models.Plan {
	return models.Plans
}

func (s *PaymentService) GetUserHistory(userID uint) ([]models.Transaction, error) {
	return s.txns.GetUserHistory(userID)
}

func (s *PaymentService) sendPurchaseEmail(txn *models.Transaction) {
	if s.mailer == nil {
		return
	}
	go func() {
		user, err := s.users.GetByID(txn.UserID)
		if err != nil {
			s.logger.Warn("purchase email skipped", zap.Uint("user_id", txn.UserID), zap.Error(err))
			return
		}
		if err := s.mailer.SendPurchaseEmail(user.Email, user.Name, txn.Plan, txn.Credits); err != nil {
			s.logger.Warn("purchase email failed", zap.String("email", user.Email), zap.Error(err))
		}
	}()
}
