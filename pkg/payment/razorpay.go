package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/razorpay/razorpay-go"
)

type RazorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

func (r *RazorpayGateway) Name() string { return "RAZORPAY" }

// Hold creates an order; the authorization itself completes on the client,
// after which Capture settles it.
func (r *RazorpayGateway) Hold(ctx context.Context, req *ChargeRequest) (*ChargeResult, error) {
	orderData := map[string]interface{}{
		"amount":   int(req.Amount * 100), // paise
		"currency": req.Currency,
		"receipt":  req.Reference,
		"notes":    req.Metadata,
	}

	order, err := r.client.Order.Create(orderData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return &ChargeResult{
		TransactionID: asString(order["id"]),
		Status:        "created",
		Amount:        req.Amount,
		Currency:      req.Currency,
		CreatedAt:     time.Now().Unix(),
	}, nil
}

func (r *RazorpayGateway) Capture(ctx context.Context, transactionID string) (*ChargeResult, error) {
	payment, err := r.client.Payment.Fetch(transactionID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payment: %w", err)
	}

	amount := asInt(payment["amount"])
	captured, err := r.client.Payment.Capture(transactionID, amount, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to capture payment: %w", err)
	}

	return &ChargeResult{
		TransactionID: asString(captured["id"]),
		Status:        asString(captured["status"]),
		Amount:        float64(amount) / 100,
		Currency:      asString(captured["currency"]),
		CreatedAt:     time.Now().Unix(),
	}, nil
}

func (r *RazorpayGateway) Refund(ctx context.Context, transactionID string, amount float64, reason string) (*ChargeResult, error) {
	refundData := map[string]interface{}{
		"notes": map[string]interface{}{"reason": reason},
	}

	refund, err := r.client.Payment.Refund(transactionID, int(amount*100), refundData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to refund payment: %w", err)
	}

	return &ChargeResult{
		TransactionID: asString(refund["id"]),
		Status:        asString(refund["status"]),
		Amount:        amount,
		Currency:      asString(refund["currency"]),
		CreatedAt:     time.Now().Unix(),
	}, nil
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
