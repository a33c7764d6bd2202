// Package email delivers notification mail. Send failures are reported to
// the caller but handlers log and swallow them: mail never fails a request.
package email

import "context"

type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

// Service is the delivery backend. Sendgrid in production, console in
// development, recorder in tests.
type Service interface {
	Send(ctx context.Context, msg Message) error
}
