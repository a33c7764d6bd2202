package email

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// consoleService writes mail to the log instead of delivering it. Used in
// development and whenever no sendgrid key is configured.
type consoleService struct {
	logger *zap.Logger
}

var _ Service = (*consoleService)(nil)

func NewConsoleService(logger *zap.Logger) Service {
	return &consoleService{logger: logger}
}

func (svc *consoleService) Send(_ context.Context, msg Message) error {
	if svc.logger != nil {
		svc.logger.Info("email (console backend)",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.String("text", msg.Text))
	}
	return nil
}

// Recorder captures sent messages for tests.
type Recorder struct {
	mu   sync.Mutex
	Sent []Message
	Err  error
}

var _ Service = (*Recorder)(nil)

func (r *Recorder) Send(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Sent = append(r.Sent, msg)
	return nil
}
