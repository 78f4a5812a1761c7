package notifications

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// ConsoleService logs messages instead of delivering them and keeps a copy
// in its outbox.
type ConsoleService struct {
	from string

	mu     sync.Mutex
	outbox []Message
}

func NewConsoleService(from string) *ConsoleService {
	return &ConsoleService{from: from}
}

func (s *ConsoleService) Send(_ context.Context, msg Message) error {
	zap.S().Infow("email (console backend)",
		"from", s.from, "to", msg.ToEmail, "subject", msg.Subject, "body", msg.HTMLContent)
	s.mu.Lock()
	s.outbox = append(s.outbox, msg)
	s.mu.Unlock()
	return nil
}

func (s *ConsoleService) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.outbox))
	copy(out, s.outbox)
	return out
}

func (s *ConsoleService) Reset() {
	s.mu.Lock()
	s.outbox = nil
	s.mu.Unlock()
}
