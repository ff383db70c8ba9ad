package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"cafehub/internal/logger"
	"cafehub/internal/models"
	"cafehub/internal/utils"
)

var (
	ErrStripeAPIError         = errors.New("stripe API error")
	ErrStripeClientInitFailed = errors.New("failed to initialize Stripe client")
	ErrNoPaymentMethod        = errors.New("no payment method provided")
)

// StripeService charges card payments for orders through Stripe
// PaymentIntents. It is optional: when no key is configured the order
// payment endpoint only accepts cash.
type StripeService struct {
	client *client.API
	log    *logger.Logger
}

func NewStripeService(secretKey string, log *logger.Logger) (*StripeService, error) {
	if secretKey == "" {
		return nil, ErrStripeClientInitFailed
	}

	sc := client.New(secretKey, nil)
	if sc == nil {
		log.Error("STRIPE", "Failed to initialize Stripe client")
		return nil, ErrStripeClientInitFailed
	}

	log.Info("STRIPE", "Stripe client initialized successfully")
	return &StripeService{client: sc, log: log}, nil
}

func parseStringToInt64(s string) int64 {
	var val int64
	fmt.Sscanf(s, "%d", &val)
	return val
}

// amountToCents converts a 2-dp amount to the smallest currency unit.
// A naive int64(total * 100) truncates (0.29 would become 28 cents).
func amountToCents(total float64) int64 {
	return decimal.NewFromFloat(total).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// ChargeOrder creates and confirms a PaymentIntent for the order total.
func (s *StripeService) ChargeOrder(ctx context.Context, order *models.Order, req *models.OrderPaymentRequest) (*models.StripeChargeResult, error) {
	s.log.LogPayment("PROCESS", order.OrderNumber, fmt.Sprintf("Processing Stripe payment, amount: %.2f", order.TotalAmount))

	var paymentMethod string
	if req.Token != "" {
		paymentMethod = req.Token
	} else if req.Card != nil {
		pmParams := &stripe.PaymentMethodParams{
			Type: stripe.String("card"),
			Card: &stripe.PaymentMethodCardParams{
				Number:   stripe.String(req.Card.Number),
				ExpMonth: stripe.Int64(parseStringToInt64(req.Card.ExpMonth)),
				ExpYear:  stripe.Int64(parseStringToInt64(req.Card.ExpYear)),
				CVC:      stripe.String(req.Card.CVC),
			},
		}
		if req.Card.Name != "" {
			pmParams.BillingDetails = &stripe.PaymentMethodBillingDetailsParams{
				Name: stripe.String(req.Card.Name),
			}
		}
		pm, err := s.client.PaymentMethods.New(pmParams)
		if err != nil {
			s.log.Error("STRIPE", fmt.Sprintf("Failed to create payment method: %v", err))
			return nil, fmt.Errorf("%w: %v", ErrStripeAPIError, err)
		}
		paymentMethod = pm.ID
	} else {
		return nil, ErrNoPaymentMethod
	}

	// Stripe wants the smallest currency unit.
	amountInCents := amountToCents(order.TotalAmount)

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amountInCents),
		Currency:      stripe.String("usd"),
		PaymentMethod: stripe.String(paymentMethod),
		Confirm:       stripe.Bool(true),
		Description:   stripe.String("Order " + order.OrderNumber),
		Metadata: map[string]string{
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
			"cafe_id":      order.CafeID,
		},
	}

	intent, err := s.client.PaymentIntents.New(params)
	if err != nil {
		s.log.Error("STRIPE", fmt.Sprintf("Payment intent failed for %s: %v", order.OrderNumber, err))
		return nil, fmt.Errorf("%w: %v", ErrStripeAPIError, err)
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		return nil, fmt.Errorf("%w: payment intent status %s", ErrStripeAPIError, intent.Status)
	}

	transactionID := utils.GeneratePaymentID()
	if intent.ID != "" {
		transactionID = intent.ID
	}

	s.log.LogPayment("SUCCESS", order.OrderNumber, fmt.Sprintf("Payment intent %s succeeded", intent.ID))

	return &models.StripeChargeResult{
		TransactionID: transactionID,
		Amount:        order.TotalAmount,
		Currency:      "usd",
	}, nil
}
