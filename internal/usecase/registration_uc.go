package usecase

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"spectux-billing/internal/domain"
	"spectux-billing/internal/domain/ports/adapter"
)

// Compile-time check
var _ RegistrationUseCase = (*registrationUC)(nil)

// ParentInfo identifies the registering parent or guardian.
type ParentInfo struct {
	Email     string
	FirstName string
	LastName  string
}

// Participant is one registered athlete.
type Participant struct {
	FirstName string
	LastName  string
	Club      string
}

// RegistrationConfirmation is the payload of the confirmation side flow: a
// confirmation mail to the registrant plus one spreadsheet row per
// participant.
type RegistrationConfirmation struct {
	Email        string
	Name         string
	Parent       ParentInfo
	Participants []Participant
}

type RegistrationUseCase interface {
	Confirm(ctx context.Context, reg RegistrationConfirmation) error
}

type registrationUC struct {
	mailer  adapter.Mailer
	sheet   adapter.SheetAppender
	subject string
	log     *zerolog.Logger
}

func NewRegistrationUseCase(mailer adapter.Mailer, sheet adapter.SheetAppender, subject string, log *zerolog.Logger) *registrationUC {
	return &registrationUC{mailer: mailer, sheet: sheet, subject: subject, log: log}
}

func (u *registrationUC) Confirm(ctx context.Context, reg RegistrationConfirmation) error {
	if strings.TrimSpace(reg.Email) == "" {
		return fmt.Errorf("%w: email is required", domain.ErrInvalidArgument)
	}
	name := reg.Name
	if name == "" {
		name = "Guest"
	}

	mail := adapter.ConfirmationMail{
		ToEmail: reg.Email,
		ToName:  name,
		Subject: u.subject,
		HTML:    buildConfirmationHTML(name, reg.Participants),
	}
	if err := u.mailer.Send(ctx, mail); err != nil {
		return fmt.Errorf("send confirmation mail: %w", err)
	}

	for _, p := range reg.Participants {
		row := []string{
			time.Now().UTC().Format(time.RFC3339),
			reg.Parent.Email,
			reg.Parent.FirstName,
			p.FirstName,
			p.LastName,
			p.Club,
		}
		if err := u.sheet.AppendRow(ctx, row); err != nil {
			return fmt.Errorf("append registration row: %w", err)
		}
	}

	u.log.Info().
		Str("email", reg.Email).
		Int("participants", len(reg.Participants)).
		Msg("registration confirmed")
	return nil
}

func buildConfirmationHTML(name string, participants []Participant) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>Thank you, %s!</h1>", html.EscapeString(name))
	b.WriteString("<p>Your registration has been received.</p>")
	if len(participants) > 0 {
		b.WriteString("<ul>")
		for _, p := range participants {
			fmt.Fprintf(&b, "<li>%s %s (%s)</li>",
				html.EscapeString(p.FirstName), html.EscapeString(p.LastName), html.EscapeString(p.Club))
		}
		b.WriteString("</ul>")
	}
	return b.String()
}
