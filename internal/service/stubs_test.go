package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/imaginehq/imagine-backend/internal/models"
	apperrors "github.com/imaginehq/imagine-backend/pkg/errors"
	"github.com/imaginehq/imagine-backend/pkg/payment"
)

// stubUserStore is an in-memory user repository. TryDebit mirrors the
// real store's conditional update under a mutex so concurrency tests are
// meaningful.
type stubUserStore struct {
	mu     sync.Mutex
	users  map[uint]*models.User
	nextID uint
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{users: make(map[uint]*models.User)}
}

func (s *stubUserStore) addUser(name, email string, balance int) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	u := &models.User{ID: s.nextID, Name: name, Email: email, CreditBalance: balance}
	s.users[u.ID] = u
	return u
}

func (s *stubUserStore) Create(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	user.ID = s.nextID
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *stubUserStore) EmailExists(email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubUserStore) GetByEmail(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperrors.NewNotFoundError("User does not exist")
}

func (s *stubUserStore) GetByID(id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("User not found")
	}
	clone := *u
	return &clone, nil
}

func (s *stubUserStore) TryDebit(userID uint, amount int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return 0, apperrors.NewNotFoundError("User not found")
	}
	if u.CreditBalance < amount {
		return 0, apperrors.NewInsufficientCreditsError("No Credit Balance")
	}
	u.CreditBalance -= amount
	return u.CreditBalance, nil
}

func (s *stubUserStore) balance(userID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[userID].CreditBalance
}

// stubTxnStore is an in-memory transaction store whose Settle applies the
// same check-and-flip-plus-credit unit as the real repository.
type stubTxnStore struct {
	mu     sync.Mutex
	txns   map[uint]*models.Transaction
	users  *stubUserStore
	nextID uint
}

func newStubTxnStore(users *stubUserStore) *stubTxnStore {
	return &stubTxnStore{txns: make(map[uint]*models.Transaction), users: users}
}

func (s *stubTxnStore) Create(txn *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	txn.ID = s.nextID
	clone := *txn
	s.txns[txn.ID] = &clone
	return nil
}

func (s *stubTxnStore) GetByID(id uint) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.txns[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Transaction not found")
	}
	clone := *txn
	return &clone, nil
}

func (s *stubTxnStore) GetByGatewayRef(ref string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, txn := range s.txns {
		if txn.GatewayRef == ref {
			clone := *txn
			return &clone, nil
		}
	}
	return nil, apperrors.NewNotFoundError("Transaction not found")
}

func (s *stubTxnStore) SetGatewayRef(id uint, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if txn, ok := s.txns[id]; ok {
		txn.GatewayRef = ref
	}
	return nil
}

func (s *stubTxnStore) GetUserHistory(userID uint) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Transaction
	for _, txn := range s.txns {
		if txn.UserID == userID {
			out = append(out, *txn)
		}
	}
	return out, nil
}

func (s *stubTxnStore) Settle(id uint) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.txns[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("Transaction not found")
	}
	if txn.Payment {
		return nil, apperrors.NewAlreadyProcessedError("Payment already verified")
	}

	s.users.mu.Lock()
	user, ok := s.users.users[txn.UserID]
	if !ok {
		s.users.mu.Unlock()
		return nil, apperrors.NewNotFoundError("User not found")
	}
	user.CreditBalance += txn.Credits
	s.users.mu.Unlock()

	txn.Payment = true
	clone := *txn
	return &clone, nil
}

// stubOrderGateway fakes the razorpay order API.
type stubOrderGateway struct {
	mu           sync.Mutex
	orders       map[string]*payment.Order
	nextOrder    int
	failCreate   bool
	rejectSig    bool
	fetchErr     error
	createCalled int
}

func newStubOrderGateway() *stubOrderGateway {
	return &stubOrderGateway{orders: make(map[string]*payment.Order)}
}

func (g *stubOrderGateway) CreateOrder(amountMinor int64, currency, receipt string) (map[string]interface{}, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.createCalled++
	if g.failCreate {
		return nil, fmt.Errorf("gateway unavailable")
	}
	g.nextOrder++
	id := fmt.Sprintf("order_%d", g.nextOrder)
	g.orders[id] = &payment.Order{
		ID:       id,
		Status:   "created",
		Receipt:  receipt,
		Amount:   amountMinor,
		Currency: currency,
	}
	return map[string]interface{}{
		"id":       id,
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
		"status":   "created",
	}, nil
}

func (g *stubOrderGateway) FetchOrder(orderID string) (*payment.Order, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fetchErr != nil {
		return nil, g.fetchErr
	}
	order, ok := g.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("order not found")
	}
	clone := *order
	return &clone, nil
}

func (g *stubOrderGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return !g.rejectSig
}

func (g *stubOrderGateway) markPaid(orderID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.orders[orderID].Status = "paid"
}

// stubGenerator fakes the image API.
type stubGenerator struct {
	mu    sync.Mutex
	data  []byte
	err   error
	calls int
}

func (g *stubGenerator) GenerateFromPrompt(_ context.Context, prompt string) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.data, nil
}

func (g *stubGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// stubGenerationStore records generation audit rows.
type stubGenerationStore struct {
	mu   sync.Mutex
	gens []models.Generation
}

func (s *stubGenerationStore) Create(gen *models.Generation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	gen.ID = uint(len(s.gens) + 1)
	s.gens = append(s.gens, *gen)
	return nil
}

func (s *stubGenerationStore) GetByUserID(userID uint) ([]models.Generation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Generation
	for _, g := range s.gens {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}
