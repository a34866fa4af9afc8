package adapter

import "context"

// ConfirmationMail is a rendered registration-confirmation message.
type ConfirmationMail struct {
	ToEmail string
	ToName  string
	Subject string
	HTML    string
}

// Mailer is the hex port for the transactional mail side channel.
type Mailer interface {
	Send(ctx context.Context, mail ConfirmationMail) error
}
