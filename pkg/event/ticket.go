package event

import "time"

const (
	FloorTicketsTopic     = "floor.tickets"
	EventTicketQueued     = "floor.ticket.queued"
	EventTicketDispatched = "floor.ticket.dispatched"
)

type TicketEventMetadata struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	TicketID   string    `json:"ticket_id"`
	TableID    int       `json:"table_id"`
	ItemName   string    `json:"item_name"`
	Priority   bool      `json:"priority"`
}

type TicketQueuedEvent struct {
	TicketEventMetadata
	PendingCount int `json:"pending_count"`
}

type TicketDispatchedEvent struct {
	TicketEventMetadata
	QueuedAt     time.Time `json:"queued_at"`
	PendingCount int       `json:"pending_count"`
}
