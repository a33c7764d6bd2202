package identity

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DevProvider is an in-process pool for development and tests. Accounts live
// in memory; subjects are fresh UUIDs like the real pool issues.
type DevProvider struct {
	logger *zap.Logger

	mu    sync.Mutex
	roles map[string]string // email -> role
	subs  map[string]string // email -> subject
}

var _ Provider = (*DevProvider)(nil)

func NewDevProvider(logger *zap.Logger) *DevProvider {
	return &DevProvider{
		logger: logger,
		roles:  make(map[string]string),
		subs:   make(map[string]string),
	}
}

func (p *DevProvider) CreateUser(_ context.Context, username, email, role, tempPassword string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	email = strings.ToLower(email)
	sub := uuid.NewString()
	p.roles[email] = role
	p.subs[email] = sub
	if p.logger != nil {
		p.logger.Info("dev identity pool: user created",
			zap.String("username", username),
			zap.String("email", email),
			zap.String("role", role),
			zap.String("sub", sub))
	}
	return sub, nil
}

func (p *DevProvider) DeleteUser(_ context.Context, email string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	email = strings.ToLower(email)
	if _, ok := p.subs[email]; !ok {
		return ErrUserNotFound
	}
	delete(p.subs, email)
	delete(p.roles, email)
	return nil
}

func (p *DevProvider) GetRole(_ context.Context, email string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	role, ok := p.roles[strings.ToLower(email)]
	if !ok {
		return "", ErrUserNotFound
	}
	return role, nil
}
