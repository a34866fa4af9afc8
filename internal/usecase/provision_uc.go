package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"spectux-billing/internal/domain"
	"spectux-billing/internal/domain/model"
	"spectux-billing/internal/domain/ports/adapter"
)

// Compile-time check
var _ ProvisionUseCase = (*provisionUC)(nil)

// ProvisionOutcome classifies how a payment notification was handled. The
// HTTP layer maps it onto the acknowledgment the provider's dispatcher sees,
// which in turn decides whether the webhook is redelivered.
type ProvisionOutcome string

const (
	// OutcomeSubscriptionCreated: first payment settled and a recurring
	// subscription was established.
	OutcomeSubscriptionCreated ProvisionOutcome = "subscription_created"
	// OutcomeNotFirstPayment: a renewal (or one-off) charge notification.
	// Renewals fire every billing cycle and must never re-enter provisioning.
	OutcomeNotFirstPayment ProvisionOutcome = "not_first_payment"
	// OutcomeNotPaid: the payment exists but has not (yet) settled.
	OutcomeNotPaid ProvisionOutcome = "not_paid"
	// OutcomeAlreadyProvisioned: a pending or active subscription already
	// exists for the customer; duplicate delivery treated as done.
	OutcomeAlreadyProvisioned ProvisionOutcome = "already_provisioned"
	// OutcomeUnknownPlan: the payment metadata references no configured plan.
	// Redelivery can never fix this.
	OutcomeUnknownPlan ProvisionOutcome = "unknown_plan"
	// OutcomeCreateFailed: the payment is captured but the subscription
	// creation call failed. Needs manual reconciliation.
	OutcomeCreateFailed ProvisionOutcome = "create_failed"
)

type ProvisionUseCase interface {
	// HandleNotification decides, from a payment id alone, whether a
	// recurring subscription must be created. A non-nil error means the
	// authoritative state could not be read or the input was malformed;
	// everything else is expressed as an outcome.
	HandleNotification(ctx context.Context, paymentID string) (ProvisionOutcome, error)
}

type provisionUC struct {
	provider adapter.BillingProvider
	plans    *PlanUseCase
	currency string
	log      *zerolog.Logger
}

func NewProvisionUseCase(provider adapter.BillingProvider, plans *PlanUseCase, currency string, log *zerolog.Logger) *provisionUC {
	return &provisionUC{provider: provider, plans: plans, currency: currency, log: log}
}

// HandleNotification evaluates the gates in strict order. The notification
// body is never trusted for status: the payment is always re-fetched from the
// provider, and existing subscriptions are re-listed immediately before the
// create call. The provider is the only shared state; there is no local lock,
// so the list-then-create window is a best-effort fence, not a transaction.
func (u *provisionUC) HandleNotification(ctx context.Context, paymentID string) (ProvisionOutcome, error) {
	if paymentID == "" {
		return "", fmt.Errorf("%w: payment id is required", domain.ErrInvalidArgument)
	}

	payment, err := u.provider.GetPayment(ctx, paymentID)
	if err != nil {
		return "", fmt.Errorf("fetch payment %s: %w", paymentID, err)
	}

	// Renewal charges must be filtered before the subscription listing, or
	// every billing cycle would trigger a pointless idempotency round-trip.
	if payment.SequenceType != model.SequenceFirst {
		u.log.Debug().
			Str("payment_id", payment.ID).
			Str("sequence_type", string(payment.SequenceType)).
			Msg("ignoring non-first payment notification")
		return OutcomeNotFirstPayment, nil
	}

	if payment.Status != model.PaymentStatusPaid {
		u.log.Debug().
			Str("payment_id", payment.ID).
			Str("status", string(payment.Status)).
			Msg("payment not settled, nothing to provision")
		return OutcomeNotPaid, nil
	}

	subs, err := u.provider.ListSubscriptions(ctx, payment.CustomerID)
	if err != nil {
		return "", fmt.Errorf("list subscriptions for customer %s: %w", payment.CustomerID, err)
	}
	for _, s := range subs {
		if s.Status.IsLive() {
			u.log.Info().
				Str("customer_id", payment.CustomerID).
				Str("subscription_id", s.ID).
				Msg("subscription already exists, skipping provisioning")
			return OutcomeAlreadyProvisioned, nil
		}
	}

	plan, err := u.plans.Resolve(payment.Metadata.Plan)
	if err != nil {
		u.log.Error().
			Str("payment_id", payment.ID).
			Str("customer_id", payment.CustomerID).
			Str("plan", payment.Metadata.Plan).
			Msg("payment metadata references an unknown plan")
		return OutcomeUnknownPlan, nil
	}

	startDate := plan.Interval.FirstChargeDate(time.Now())
	sub, err := u.provider.CreateSubscription(ctx, adapter.CreateSubscriptionParams{
		CustomerID:  payment.CustomerID,
		Amount:      model.Amount{Currency: u.currency, Value: plan.PriceValue()},
		Interval:    plan.Interval.ProviderValue(),
		Description: plan.Description,
		StartDate:   startDate,
	})
	if err != nil {
		// The money is already captured. Acknowledging terminally avoids a
		// redelivery storm against a failing create path; the gap is
		// surfaced here for manual reconciliation instead.
		u.log.Error().Err(err).
			Str("payment_id", payment.ID).
			Str("customer_id", payment.CustomerID).
			Str("plan", plan.Key).
			Msg("payment captured but subscription creation failed; needs manual reconciliation")
		return OutcomeCreateFailed, nil
	}

	u.log.Info().
		Str("customer_id", payment.CustomerID).
		Str("subscription_id", sub.ID).
		Str("plan", plan.Key).
		Str("start_date", startDate.Format("2006-01-02")).
		Msg("subscription provisioned")
	return OutcomeSubscriptionCreated, nil
}
