package floor

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/floor/internal/billing"
	"github.com/appetiteclub/floor/internal/menu"
)

// MockPublisher is a test mock for events.Publisher
type MockPublisher struct {
	mu              sync.Mutex
	PublishedEvents []PublishedEvent
	PublishFunc     func(ctx context.Context, topic string, data []byte) error
}

type PublishedEvent struct {
	Topic string
	Data  []byte
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		PublishedEvents: make([]PublishedEvent, 0),
	}
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, data []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, data)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PublishedEvents = append(m.PublishedEvents, PublishedEvent{Topic: topic, Data: data})
	return nil
}

// EventTypes returns the event_type field of every event published on topic.
func (m *MockPublisher) EventTypes(topic string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []string
	for _, e := range m.PublishedEvents {
		if e.Topic != topic {
			continue
		}
		var envelope struct {
			EventType string `json:"event_type"`
		}
		if err := json.Unmarshal(e.Data, &envelope); err == nil {
			out = append(out, envelope.EventType)
		}
	}
	return out
}

// MockReceiptStore is a test mock for ReceiptStore
type MockReceiptStore struct {
	mu       sync.Mutex
	Receipts []billing.Receipt
	SaveFunc func(ctx context.Context, r billing.Receipt) error
}

func NewMockReceiptStore() *MockReceiptStore {
	return &MockReceiptStore{}
}

func (m *MockReceiptStore) Save(ctx context.Context, r billing.Receipt) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, r)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Receipts = append(m.Receipts, r)
	return nil
}

func newTestCatalog(t *testing.T) *menu.Catalog {
	t.Helper()
	catalog, err := menu.Load(nil, apt.NewNoopLogger())
	if err != nil {
		t.Fatalf("menu.Load() error = %v", err)
	}
	return catalog
}

func newTestSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	s, err := NewSession(newTestCatalog(t), opts...)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return s
}
