package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type StripeGateway struct {
	client *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	sc := &client.API{}
	sc.Init(secretKey, nil)

	return &StripeGateway{client: sc}
}

func (s *StripeGateway) Name() string { return "STRIPE" }

func (s *StripeGateway) Hold(ctx context.Context, req *ChargeRequest) (*ChargeResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(int64(req.Amount * 100)), // minor units
		Currency:      stripe.String(req.Currency),
		Description:   stripe.String(req.Description),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
	}
	params.AddMetadata("reference", req.Reference)
	for key, value := range req.Metadata {
		params.AddMetadata(key, fmt.Sprintf("%v", value))
	}

	pi, err := s.client.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return stripeResult(pi), nil
}

func (s *StripeGateway) Capture(ctx context.Context, transactionID string) (*ChargeResult, error) {
	pi, err := s.client.PaymentIntents.Capture(transactionID, &stripe.PaymentIntentCaptureParams{})
	if err != nil {
		return nil, fmt.Errorf("failed to capture payment intent: %w", err)
	}
	return stripeResult(pi), nil
}

func (s *StripeGateway) Refund(ctx context.Context, transactionID string, amount float64, reason string) (*ChargeResult, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(transactionID),
	}
	if amount > 0 {
		params.Amount = stripe.Int64(int64(amount * 100))
	}

	refund, err := s.client.Refunds.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create refund: %w", err)
	}

	return &ChargeResult{
		TransactionID: refund.ID,
		Status:        string(refund.Status),
		Amount:        float64(refund.Amount) / 100,
		Currency:      string(refund.Currency),
		CreatedAt:     refund.Created,
	}, nil
}

func stripeResult(pi *stripe.PaymentIntent) *ChargeResult {
	return &ChargeResult{
		TransactionID: pi.ID,
		Status:        string(pi.Status),
		Amount:        float64(pi.Amount) / 100,
		Currency:      string(pi.Currency),
		CreatedAt:     pi.Created,
	}
}
