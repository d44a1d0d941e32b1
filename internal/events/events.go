package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	eventSource  = "feedback-service"
	eventVersion = "1.0"
)

// Event types emitted by the service.
const (
	FormCreated       = "feedback.form_created"
	FormStatusChanged = "feedback.form_status_changed"
	FormDeleted       = "feedback.form_deleted"
	ResponseSubmitted = "feedback.response_submitted"
)

// Event is the envelope every published message shares.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an event envelope around a payload.
func NewEvent(eventType string, data interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    eventSource,
		Version:   eventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// FormEvent is the payload for form lifecycle events.
type FormEvent struct {
	FormID   string `json:"formId"`
	AdminID  string `json:"adminId"`
	Title    string `json:"title"`
	IsActive bool   `json:"isActive"`
}

// ResponseEvent is the payload for submission events. The respondent
// name is intentionally omitted.
type ResponseEvent struct {
	FormID      string `json:"formId"`
	ResponseID  string `json:"responseId"`
	AnswerCount int    `json:"answerCount"`
}

// Publisher sends events to the message broker. Publishing failures must
// never fail the originating request; callers log and continue.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// MockEventPublisher records events in memory for tests.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []Event
	logger *slog.Logger
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{logger: logger}
}

func (m *MockEventPublisher) Publish(ctx context.Context, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	if m.logger != nil {
		m.logger.Debug("mock event published", "type", event.Type, "id", event.ID)
	}
	return nil
}

func (m *MockEventPublisher) Close() error {
	return nil
}

// GetPublishedEvents returns a copy of everything published so far.
func (m *MockEventPublisher) GetPublishedEvents() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MockEventPublisher) ClearEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}

// NoopPublisher drops events, used when no broker is configured.
type NoopPublisher struct {
	logger *slog.Logger
}

func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	return &NoopPublisher{logger: logger}
}

func (n *NoopPublisher) Publish(ctx context.Context, event Event) error {
	if n.logger != nil {
		n.logger.Debug("event publishing disabled, dropping event", "type", event.Type)
	}
	return nil
}

func (n *NoopPublisher) Close() error {
	return nil
}
