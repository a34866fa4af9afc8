// Package noop holds do-nothing side-channel adapters used when the mail or
// spreadsheet integrations are not configured (local development, tests).
package noop

import (
	"context"

	"github.com/rs/zerolog"

	"spectux-billing/internal/domain/ports/adapter"
)

var (
	_ adapter.Mailer        = (*Mailer)(nil)
	_ adapter.SheetAppender = (*SheetAppender)(nil)
)

type Mailer struct {
	log *zerolog.Logger
}

func NewMailer(log *zerolog.Logger) *Mailer { return &Mailer{log: log} }

func (m *Mailer) Send(ctx context.Context, mail adapter.ConfirmationMail) error {
	m.log.Warn().Str("to", mail.ToEmail).Msg("mail integration not configured, dropping confirmation mail")
	return nil
}

type SheetAppender struct {
	log *zerolog.Logger
}

func NewSheetAppender(log *zerolog.Logger) *SheetAppender { return &SheetAppender{log: log} }

func (s *SheetAppender) AppendRow(ctx context.Context, row []string) error {
	s.log.Warn().Int("columns", len(row)).Msg("sheets integration not configured, dropping registration row")
	return nil
}
