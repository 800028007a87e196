package dispatch

import (
	"time"

	"github.com/appetiteclub/apt"
	"github.com/google/uuid"
)

type TicketID = uuid.UUID

// Ticket is one item waiting to be sent to the kitchen.
type Ticket struct {
	ID       TicketID  `json:"id"`
	TableID  int       `json:"table_id"`
	Item     string    `json:"item"`
	Priority bool      `json:"priority"`
	QueuedAt time.Time `json:"queued_at"`
}

func NewTicket(tableID int, item string, priority bool) Ticket {
	return Ticket{
		ID:       apt.GenerateNewID(),
		TableID:  tableID,
		Item:     item,
		Priority: priority,
	}
}

// Lane names the queue a ticket travels through.
func (t Ticket) Lane() string {
	if t.Priority {
		return LanePriority
	}
	return LaneStandard
}
