package floor

import (
	"context"
	"encoding/json"
	"time"

	"github.com/appetiteclub/floor/internal/billing"
	"github.com/appetiteclub/floor/internal/dispatch"
	"github.com/appetiteclub/floor/pkg/event"
)

const (
	tableStatusTopic = event.FloorTablesTopic
	eventSource      = "floor"
)

func (s *Session) publish(ctx context.Context, topic string, payload interface{}) {
	if s.publisher == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("cannot marshal event", "topic", topic, "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, topic, data); err != nil {
		s.logger.Error("cannot publish event", "topic", topic, "error", err)
	}
}

func (s *Session) publishTableStatus(ctx context.Context, id int, previous, current, reason string) {
	s.publish(ctx, tableStatusTopic, event.TableStatusEvent{
		EventType:      event.EventTableStatusChanged,
		TableID:        id,
		Status:         current,
		PreviousStatus: previous,
		Reason:         reason,
		Source:         eventSource,
		OccurredAt:     s.now(),
	})
}

func tablePaymentEvent(id int, method string, at time.Time) event.TableStatusEvent {
	return event.TableStatusEvent{
		EventType:     event.EventTablePaymentMethodSet,
		TableID:       id,
		Status:        "occupied",
		PaymentMethod: method,
		Source:        eventSource,
		OccurredAt:    at,
	}
}

func ticketMetadata(eventType string, t dispatch.Ticket, at time.Time) event.TicketEventMetadata {
	return event.TicketEventMetadata{
		EventType:  eventType,
		OccurredAt: at,
		TicketID:   t.ID.String(),
		TableID:    t.TableID,
		ItemName:   t.Item,
		Priority:   t.Priority,
	}
}

func (s *Session) publishTicketQueued(ctx context.Context, t dispatch.Ticket, pending int) {
	s.publish(ctx, event.FloorTicketsTopic, event.TicketQueuedEvent{
		TicketEventMetadata: ticketMetadata(event.EventTicketQueued, t, t.QueuedAt),
		PendingCount:        pending,
	})
}

func (s *Session) publishTicketDispatched(ctx context.Context, t dispatch.Ticket) {
	s.publish(ctx, event.FloorTicketsTopic, event.TicketDispatchedEvent{
		TicketEventMetadata: ticketMetadata(event.EventTicketDispatched, t, s.now()),
		QueuedAt:            t.QueuedAt,
		PendingCount:        s.queue.Len(),
	})
}

func (s *Session) publishTableClosed(ctx context.Context, r billing.Receipt) {
	s.publish(ctx, event.FloorBillsTopic, event.TableClosedEvent{
		EventType:     event.EventTableClosed,
		OccurredAt:    r.ClosedAt,
		ReceiptID:     r.ID.String(),
		TableID:       r.TableID,
		PaymentMethod: r.PaymentMethod,
		Items:         r.Items,
		Bill:          r.Bill.String(),
		Tip:           r.Tip.String(),
		Final:         r.Final.String(),
	})
}
