//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"spectux-billing/internal/domain/model"
	"spectux-billing/internal/domain/ports/adapter"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

// MockBillingProvider is a hand-written fake of the provider port. Each
// operation records its calls and can be overridden per test via the Func
// fields.
type MockBillingProvider struct {
	mu sync.Mutex

	CreateCustomerFunc     func(ctx context.Context, name, email string) (*model.Customer, error)
	GetPaymentFunc         func(ctx context.Context, id string) (*model.PaymentRecord, error)
	CreatePaymentFunc      func(ctx context.Context, p adapter.CreatePaymentParams) (string, string, error)
	ListSubscriptionsFunc  func(ctx context.Context, customerID string) ([]model.SubscriptionRecord, error)
	CreateSubscriptionFunc func(ctx context.Context, p adapter.CreateSubscriptionParams) (*model.SubscriptionRecord, error)

	CreateCustomerCalls     int
	GetPaymentCalls         int
	CreatePaymentCalls      []adapter.CreatePaymentParams
	ListSubscriptionsCalls  int
	CreateSubscriptionCalls []adapter.CreateSubscriptionParams
}

func (m *MockBillingProvider) Name() string { return "mock" }

func (m *MockBillingProvider) CreateCustomer(ctx context.Context, name, email string) (*model.Customer, error) {
	m.mu.Lock()
	m.CreateCustomerCalls++
	m.mu.Unlock()
	if m.CreateCustomerFunc != nil {
		return m.CreateCustomerFunc(ctx, name, email)
	}
	return &model.Customer{ID: "cst_mock", Name: name, Email: email}, nil
}

func (m *MockBillingProvider) GetPayment(ctx context.Context, id string) (*model.PaymentRecord, error) {
	m.mu.Lock()
	m.GetPaymentCalls++
	m.mu.Unlock()
	if m.GetPaymentFunc != nil {
		return m.GetPaymentFunc(ctx, id)
	}
	return &model.PaymentRecord{ID: id}, nil
}

func (m *MockBillingProvider) CreatePayment(ctx context.Context, p adapter.CreatePaymentParams) (string, string, error) {
	m.mu.Lock()
	m.CreatePaymentCalls = append(m.CreatePaymentCalls, p)
	m.mu.Unlock()
	if m.CreatePaymentFunc != nil {
		return m.CreatePaymentFunc(ctx, p)
	}
	return "tr_mock", "https://checkout.example/tr_mock", nil
}

func (m *MockBillingProvider) ListSubscriptions(ctx context.Context, customerID string) ([]model.SubscriptionRecord, error) {
	m.mu.Lock()
	m.ListSubscriptionsCalls++
	m.mu.Unlock()
	if m.ListSubscriptionsFunc != nil {
		return m.ListSubscriptionsFunc(ctx, customerID)
	}
	return nil, nil
}

func (m *MockBillingProvider) CreateSubscription(ctx context.Context, p adapter.CreateSubscriptionParams) (*model.SubscriptionRecord, error) {
	m.mu.Lock()
	m.CreateSubscriptionCalls = append(m.CreateSubscriptionCalls, p)
	m.mu.Unlock()
	if m.CreateSubscriptionFunc != nil {
		return m.CreateSubscriptionFunc(ctx, p)
	}
	return &model.SubscriptionRecord{
		ID:         "sub_mock",
		CustomerID: p.CustomerID,
		Status:     model.SubscriptionStatusActive,
		Amount:     p.Amount,
		Interval:   p.Interval,
	}, nil
}

// MockMailer records sent mails.
type MockMailer struct {
	mu       sync.Mutex
	SendFunc func(ctx context.Context, mail adapter.ConfirmationMail) error
	Sent     []adapter.ConfirmationMail
}

func (m *MockMailer) Send(ctx context.Context, mail adapter.ConfirmationMail) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, mail)
	m.mu.Unlock()
	if m.SendFunc != nil {
		return m.SendFunc(ctx, mail)
	}
	return nil
}

// MockSheetAppender records appended rows.
type MockSheetAppender struct {
	mu         sync.Mutex
	AppendFunc func(ctx context.Context, row []string) error
	Rows       [][]string
}

func (m *MockSheetAppender) AppendRow(ctx context.Context, row []string) error {
	m.mu.Lock()
	m.Rows = append(m.Rows, row)
	m.mu.Unlock()
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, row)
	}
	return nil
}
