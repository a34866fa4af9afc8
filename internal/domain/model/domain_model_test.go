//go:build !integration

package model

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"spectux-billing/internal/domain"
)

// --- Plan Model Tests ---

func TestNewPlanDefinition(t *testing.T) {
	price := decimal.RequireFromString("10.00")

	t.Run("should create a valid plan", func(t *testing.T) {
		p, err := NewPlanDefinition("monthly10", "Subscription (monthly10)", price, IntervalMonthly)
		if err != nil {
			t.Fatalf("expected no error, but got: %v", err)
		}
		if p.PriceValue() != "10.00" {
			t.Errorf("expected price value '10.00', but got %s", p.PriceValue())
		}
	})

	t.Run("should reject invalid input", func(t *testing.T) {
		cases := map[string]func() (*PlanDefinition, error){
			"empty key": func() (*PlanDefinition, error) {
				return NewPlanDefinition("", "desc", price, IntervalMonthly)
			},
			"empty description": func() (*PlanDefinition, error) {
				return NewPlanDefinition("monthly10", "", price, IntervalMonthly)
			},
			"zero price": func() (*PlanDefinition, error) {
				return NewPlanDefinition("monthly10", "desc", decimal.Zero, IntervalMonthly)
			},
			"negative price": func() (*PlanDefinition, error) {
				return NewPlanDefinition("monthly10", "desc", price.Neg(), IntervalMonthly)
			},
			"unsupported interval": func() (*PlanDefinition, error) {
				return NewPlanDefinition("monthly10", "desc", price, Interval("weekly"))
			},
		}
		for name, build := range cases {
			if _, err := build(); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("%s: expected ErrInvalidArgument, got %v", name, err)
			}
		}
	})

	t.Run("should render fractional prices with two decimals", func(t *testing.T) {
		p, err := NewPlanDefinition("daily1", "desc", decimal.RequireFromString("1.5"), IntervalDaily)
		if err != nil {
			t.Fatal(err)
		}
		if p.PriceValue() != "1.50" {
			t.Errorf("expected '1.50', got %s", p.PriceValue())
		}
	})
}

func TestInterval_FirstChargeDate(t *testing.T) {
	t.Run("daily plans start tomorrow", func(t *testing.T) {
		now := time.Date(2026, time.March, 15, 13, 45, 0, 0, time.UTC)
		got := IntervalDaily.FirstChargeDate(now)
		want := time.Date(2026, time.March, 16, 13, 45, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("expected %s, got %s", want, got)
		}
	})

	t.Run("monthly plans start the first of next month", func(t *testing.T) {
		now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
		got := IntervalMonthly.FirstChargeDate(now)
		want := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("expected %s, got %s", want, got)
		}
	})

	t.Run("monthly rolls over the year in December", func(t *testing.T) {
		now := time.Date(2026, time.December, 31, 23, 0, 0, 0, time.UTC)
		got := IntervalMonthly.FirstChargeDate(now)
		want := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("expected %s, got %s", want, got)
		}
	})
}

func TestInterval_ProviderValue(t *testing.T) {
	if got := IntervalDaily.ProviderValue(); got != "1 day" {
		t.Errorf("expected '1 day', got %s", got)
	}
	if got := IntervalMonthly.ProviderValue(); got != "1 month" {
		t.Errorf("expected '1 month', got %s", got)
	}
}

// --- Subscription Model Tests ---

func TestSubscriptionStatus_IsLive(t *testing.T) {
	live := map[SubscriptionStatus]bool{
		SubscriptionStatusPending:   true,
		SubscriptionStatusActive:    true,
		SubscriptionStatusCanceled:  false,
		SubscriptionStatusSuspended: false,
		SubscriptionStatusCompleted: false,
	}
	for status, want := range live {
		if got := status.IsLive(); got != want {
			t.Errorf("status %s: expected IsLive=%v, got %v", status, want, got)
		}
	}
}
