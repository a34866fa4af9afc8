package adapter

import (
	"context"
	"time"

	"spectux-billing/internal/domain/model"
)

// CreatePaymentParams describes the mandate-establishing first payment. The
// metadata plan key is the only correlation between checkout and the webhook
// that later provisions the subscription.
type CreatePaymentParams struct {
	CustomerID   string
	Amount       model.Amount
	SequenceType model.SequenceType
	Description  string
	RedirectURL  string
	WebhookURL   string
	Metadata     model.PaymentMetadata
}

// CreateSubscriptionParams describes the recurring schedule to establish once
// the first payment has settled.
type CreateSubscriptionParams struct {
	CustomerID  string
	Amount      model.Amount
	Interval    string
	Description string
	StartDate   time.Time
}

// BillingProvider is the hex port for the external payment provider. All
// durable state (customers, payments, subscriptions) lives on the provider
// side; implementations must surface any non-success response or missing
// mandatory field as an error, never coerce it to a default.
type BillingProvider interface {
	Name() string

	CreateCustomer(ctx context.Context, name, email string) (*model.Customer, error)
	GetPayment(ctx context.Context, id string) (*model.PaymentRecord, error)
	// CreatePayment returns the provider payment id and the checkout redirect URL.
	CreatePayment(ctx context.Context, p CreatePaymentParams) (id string, checkoutURL string, err error)
	ListSubscriptions(ctx context.Context, customerID string) ([]model.SubscriptionRecord, error)
	CreateSubscription(ctx context.Context, p CreateSubscriptionParams) (*model.SubscriptionRecord, error)
}
