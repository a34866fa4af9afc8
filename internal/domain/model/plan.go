package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"spectux-billing/internal/domain"
)

// Interval is the billing cadence of a plan.
type Interval string

const (
	IntervalDaily   Interval = "daily"
	IntervalMonthly Interval = "monthly"
)

// ProviderValue renders the interval in the provider's wire vocabulary.
func (i Interval) ProviderValue() string {
	switch i {
	case IntervalDaily:
		return "1 day"
	case IntervalMonthly:
		return "1 month"
	}
	return string(i)
}

// FirstChargeDate computes when the recurring schedule starts, given the
// moment the first payment settled. Daily plans begin tomorrow. Monthly plans
// begin on the first day of the following month: the month already covered by
// the first payment must not be charged again.
func (i Interval) FirstChargeDate(now time.Time) time.Time {
	switch i {
	case IntervalDaily:
		return now.AddDate(0, 0, 1)
	case IntervalMonthly:
		return time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
	}
	return now.AddDate(0, 0, 1)
}

// PlanDefinition is one entry of the static plan catalog. Immutable after
// load; every plan key referenced at checkout must resolve to exactly one of
// these.
type PlanDefinition struct {
	Key         string
	Price       decimal.Decimal
	Interval    Interval
	Description string
}

// NewPlanDefinition validates and constructs a catalog entry.
func NewPlanDefinition(key, description string, price decimal.Decimal, interval Interval) (*PlanDefinition, error) {
	if key == "" || description == "" {
		return nil, fmt.Errorf("%w: plan key and description are required", domain.ErrInvalidArgument)
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("%w: plan %q price must be positive", domain.ErrInvalidArgument, key)
	}
	if interval != IntervalDaily && interval != IntervalMonthly {
		return nil, fmt.Errorf("%w: plan %q has unsupported interval %q", domain.ErrInvalidArgument, key, interval)
	}
	return &PlanDefinition{
		Key:         key,
		Price:       price,
		Interval:    interval,
		Description: description,
	}, nil
}

// PriceValue renders the price the way the provider expects it: two decimal
// places, no currency symbol.
func (p *PlanDefinition) PriceValue() string {
	return p.Price.StringFixed(2)
}
