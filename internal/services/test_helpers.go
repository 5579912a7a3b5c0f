package services

import (
	"context"
	"sync"

	"github.com/BradenHooton/portfolio/internal/models"
)

// MockEmailService implements EmailService for testing
type MockEmailService struct {
	SendEmailFunc func(ctx context.Context, msg models.EmailMessage) error

	mu   sync.Mutex
	sent []models.EmailMessage
}

func (m *MockEmailService) SendEmail(ctx context.Context, msg models.EmailMessage) error {
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()

	if m.SendEmailFunc != nil {
		return m.SendEmailFunc(ctx, msg)
	}
	return nil
}

// Sent returns every message passed to SendEmail, in call order
func (m *MockEmailService) Sent() []models.EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.EmailMessage(nil), m.sent...)
}

// CallCount returns how many times SendEmail was invoked
func (m *MockEmailService) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// MockNotifier implements Notifier for testing
type MockNotifier struct {
	DispatchFunc func(ctx context.Context, messages ...models.EmailMessage) error

	mu    sync.Mutex
	calls [][]models.EmailMessage
}

func (m *MockNotifier) Dispatch(ctx context.Context, messages ...models.EmailMessage) error {
	m.mu.Lock()
	m.calls = append(m.calls, messages)
	m.mu.Unlock()

	if m.DispatchFunc != nil {
		return m.DispatchFunc(ctx, messages...)
	}
	return nil
}

// Calls returns the message batches passed to Dispatch
func (m *MockNotifier) Calls() [][]models.EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]models.EmailMessage(nil), m.calls...)
}
