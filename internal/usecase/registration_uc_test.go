//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"spectux-billing/internal/domain"
	"spectux-billing/internal/domain/ports/adapter"
	"spectux-billing/internal/usecase"
)

func TestRegistrationUseCase_Confirm(t *testing.T) {
	ctx := context.Background()

	reg := usecase.RegistrationConfirmation{
		Email: "parent@example.com",
		Name:  "Pat",
		Parent: usecase.ParentInfo{
			Email:     "parent@example.com",
			FirstName: "Pat",
		},
		Participants: []usecase.Participant{
			{FirstName: "Kim", LastName: "Jansen", Club: "TKSA"},
			{FirstName: "Sam", LastName: "Jansen", Club: "TKSA"},
		},
	}

	t.Run("sends one mail and appends one row per participant", func(t *testing.T) {
		mailer := &MockMailer{}
		sheet := &MockSheetAppender{}
		uc := usecase.NewRegistrationUseCase(mailer, sheet, "Registration Confirmation", newTestLogger())

		if err := uc.Confirm(ctx, reg); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(mailer.Sent) != 1 {
			t.Fatalf("expected 1 mail, got %d", len(mailer.Sent))
		}
		sent := mailer.Sent[0]
		if sent.ToEmail != "parent@example.com" || sent.Subject != "Registration Confirmation" {
			t.Errorf("unexpected mail envelope: %+v", sent)
		}
		if !strings.Contains(sent.HTML, "Kim") {
			t.Error("mail body should list participants")
		}
		if len(sheet.Rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(sheet.Rows))
		}
		if sheet.Rows[0][3] != "Kim" || sheet.Rows[1][3] != "Sam" {
			t.Errorf("unexpected rows: %v", sheet.Rows)
		}
	})

	t.Run("rejects a missing email before any side effect", func(t *testing.T) {
		mailer := &MockMailer{}
		sheet := &MockSheetAppender{}
		uc := usecase.NewRegistrationUseCase(mailer, sheet, "Registration Confirmation", newTestLogger())

		bad := reg
		bad.Email = ""
		err := uc.Confirm(ctx, bad)
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
		if len(mailer.Sent) != 0 || len(sheet.Rows) != 0 {
			t.Error("no side effects expected for invalid input")
		}
	})

	t.Run("mail failure stops the flow before the sheet", func(t *testing.T) {
		mailer := &MockMailer{
			SendFunc: func(ctx context.Context, mail adapter.ConfirmationMail) error {
				return domain.ErrUpstream
			},
		}
		sheet := &MockSheetAppender{}
		uc := usecase.NewRegistrationUseCase(mailer, sheet, "Registration Confirmation", newTestLogger())

		if err := uc.Confirm(ctx, reg); !errors.Is(err, domain.ErrUpstream) {
			t.Fatalf("expected ErrUpstream, got %v", err)
		}
		if len(sheet.Rows) != 0 {
			t.Error("no rows expected after mail failure")
		}
	})

	t.Run("sheet failure is surfaced", func(t *testing.T) {
		mailer := &MockMailer{}
		sheet := &MockSheetAppender{
			AppendFunc: func(ctx context.Context, row []string) error {
				return domain.ErrUpstream
			},
		}
		uc := usecase.NewRegistrationUseCase(mailer, sheet, "Registration Confirmation", newTestLogger())

		if err := uc.Confirm(ctx, reg); !errors.Is(err, domain.ErrUpstream) {
			t.Fatalf("expected ErrUpstream, got %v", err)
		}
	})
}
