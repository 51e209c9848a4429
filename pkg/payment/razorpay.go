package payment

import (
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	razorpayUtils "github.com/razorpay/razorpay-go/utils"
)

// Order is the subset of the gateway order descriptor the settlement
// path cares about.
type Order struct {
	ID       string
	Status   string
	Receipt  string
	Amount   int64
	Currency string
}

type RazorpayService struct {
	client    *razorpay.Client
	keySecret string
}

func NewRazorpayService(keyID, keySecret string) *RazorpayService {
	return &RazorpayService{
		client:    razorpay.NewClient(keyID, keySecret),
		keySecret: keySecret,
	}
}

// CreateOrder creates a gateway order. Amount is in the minor currency
// unit (paise), receipt carries our transaction id. The raw descriptor is
// returned so the handler can pass it straight to the checkout widget.
func (s *RazorpayService) CreateOrder(amountMinor int64, currency, receipt string) (map[string]interface{}, error) {
	data := map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}

	order, err := s.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}
	return order, nil
}

// FetchOrder retrieves an order by id for settlement verification.
func (s *RazorpayService) FetchOrder(orderID string) (*Order, error) {
	raw, err := s.client.Order.Fetch(orderID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order fetch: %w", err)
	}

	return &Order{
		ID:       stringField(raw, "id"),
		Status:   stringField(raw, "status"),
		Receipt:  stringField(raw, "receipt"),
		Amount:   int64Field(raw, "amount"),
		Currency: stringField(raw, "currency"),
	}, nil
}

// VerifySignature checks the checkout callback signature (HMAC-SHA256 of
// order_id|payment_id under the key secret).
func (s *RazorpayService) VerifySignature(orderID, paymentID, signature string) bool {
	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	return razorpayUtils.VerifyPaymentSignature(params, signature, s.keySecret)
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func int64Field(m map[string]interface{}, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}
