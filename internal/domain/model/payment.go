package model

type PaymentStatus string

const (
	PaymentStatusOpen     PaymentStatus = "open"
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusExpired  PaymentStatus = "expired"
	PaymentStatusCanceled PaymentStatus = "canceled"
)

// SequenceType distinguishes one-off charges, the mandate-establishing first
// charge, and the provider's own automatic renewals.
type SequenceType string

const (
	SequenceOneOff    SequenceType = "oneoff"
	SequenceFirst     SequenceType = "first"
	SequenceRecurring SequenceType = "recurring"
)

// Amount is the provider's money representation: a currency code and a
// decimal string such as "10.00".
type Amount struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

// PaymentMetadata carries the plan identity across the checkout/webhook gap.
// It is set when the first payment is created and read back from the
// re-fetched payment at webhook time; the webhook body itself never carries
// plan information.
type PaymentMetadata struct {
	Plan string `json:"plan"`
}

// PaymentRecord is the provider-owned payment resource. This service only
// ever reads it; all decisions derive from a fresh fetch, never from a
// webhook body.
type PaymentRecord struct {
	ID           string          `json:"id"`
	Status       PaymentStatus   `json:"status"`
	SequenceType SequenceType    `json:"sequenceType"`
	CustomerID   string          `json:"customerId"`
	Amount       Amount          `json:"amount"`
	Description  string          `json:"description"`
	Metadata     PaymentMetadata `json:"metadata"`
}

// Customer is the provider-owned customer resource.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
