package model

type SubscriptionStatus string

const (
	SubscriptionStatusPending   SubscriptionStatus = "pending"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCanceled  SubscriptionStatus = "canceled"
	SubscriptionStatusSuspended SubscriptionStatus = "suspended"
	SubscriptionStatusCompleted SubscriptionStatus = "completed"
)

// IsLive reports whether the subscription counts as provisioned. A pending or
// active subscription is the idempotency fence: while one exists for a
// customer, no second one may be created.
func (s SubscriptionStatus) IsLive() bool {
	return s == SubscriptionStatusActive || s == SubscriptionStatusPending
}

// SubscriptionRecord is the provider-owned subscription resource.
type SubscriptionRecord struct {
	ID          string             `json:"id"`
	CustomerID  string             `json:"customerId"`
	Status      SubscriptionStatus `json:"status"`
	Amount      Amount             `json:"amount"`
	Interval    string             `json:"interval"`
	StartDate   string             `json:"startDate"`
	Description string             `json:"description"`
}
