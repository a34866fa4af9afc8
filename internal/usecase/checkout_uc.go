package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"spectux-billing/internal/domain"
	"spectux-billing/internal/domain/model"
	"spectux-billing/internal/domain/ports/adapter"
)

// Compile-time check
var _ CheckoutUseCase = (*checkoutUC)(nil)

// CheckoutRequest is one incoming checkout call. Not persisted anywhere; the
// plan key embedded into the payment metadata is the only thing that survives
// past the response.
type CheckoutRequest struct {
	Name         string
	Email        string
	Plan         string
	RedirectBase string
}

// CheckoutResult carries the provider identifiers and the URL the customer
// must be redirected to.
type CheckoutResult struct {
	CheckoutURL string
	CustomerID  string
	PaymentID   string
}

type CheckoutUseCase interface {
	// Initiate creates a provider customer and a mandate-establishing first
	// payment, returning the checkout redirect location.
	Initiate(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error)
}

type checkoutUC struct {
	provider   adapter.BillingProvider
	plans      *PlanUseCase
	currency   string
	webhookURL string
	log        *zerolog.Logger
}

func NewCheckoutUseCase(provider adapter.BillingProvider, plans *PlanUseCase, currency, webhookURL string, log *zerolog.Logger) *checkoutUC {
	return &checkoutUC{provider: provider, plans: plans, currency: currency, webhookURL: webhookURL, log: log}
}

func (u *checkoutUC) Initiate(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if err := validateCheckout(req); err != nil {
		return nil, err
	}

	// Unknown plans are rejected before any provider call so invalid input
	// never leaves orphaned customer/payment records on the provider side.
	plan, err := u.plans.Resolve(req.Plan)
	if err != nil {
		return nil, err
	}

	customer, err := u.provider.CreateCustomer(ctx, req.Name, req.Email)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	paymentID, checkoutURL, err := u.provider.CreatePayment(ctx, adapter.CreatePaymentParams{
		CustomerID:   customer.ID,
		Amount:       model.Amount{Currency: u.currency, Value: plan.PriceValue()},
		SequenceType: model.SequenceFirst,
		Description:  fmt.Sprintf("First payment: %s", plan.Description),
		RedirectURL:  strings.TrimRight(req.RedirectBase, "/") + "/payment-success",
		WebhookURL:   u.webhookURL,
		Metadata:     model.PaymentMetadata{Plan: plan.Key},
	})
	if err != nil {
		return nil, fmt.Errorf("create first payment: %w", err)
	}

	u.log.Info().
		Str("customer_id", customer.ID).
		Str("payment_id", paymentID).
		Str("plan", plan.Key).
		Msg("checkout initiated")

	return &CheckoutResult{CheckoutURL: checkoutURL, CustomerID: customer.ID, PaymentID: paymentID}, nil
}

func validateCheckout(req CheckoutRequest) error {
	switch {
	case strings.TrimSpace(req.Name) == "":
		return fmt.Errorf("%w: name is required", domain.ErrInvalidArgument)
	case strings.TrimSpace(req.Email) == "":
		return fmt.Errorf("%w: email is required", domain.ErrInvalidArgument)
	case strings.TrimSpace(req.Plan) == "":
		return fmt.Errorf("%w: plan is required", domain.ErrInvalidArgument)
	case strings.TrimSpace(req.RedirectBase) == "":
		return fmt.Errorf("%w: redirectBaseUrl is required", domain.ErrInvalidArgument)
	}
	if _, err := url.ParseRequestURI(req.RedirectBase); err != nil {
		return fmt.Errorf("%w: redirectBaseUrl is not a valid URL", domain.ErrInvalidArgument)
	}
	return nil
}
