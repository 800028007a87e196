package event

import "time"

const (
	FloorBillsTopic  = "floor.bills"
	EventTableClosed = "floor.table.closed"

	// FloorSubjects matches every subject published by the floor service.
	FloorSubjects = "floor.>"
)

// TableClosedEvent is emitted once a table has settled its bill.
// Amounts are decimal strings at full precision.
type TableClosedEvent struct {
	EventType     string    `json:"event_type"`
	OccurredAt    time.Time `json:"occurred_at"`
	ReceiptID     string    `json:"receipt_id"`
	TableID       int       `json:"table_id"`
	PaymentMethod string    `json:"payment_method"`
	Items         []string  `json:"items"`
	Bill          string    `json:"bill"`
	Tip           string    `json:"tip"`
	Final         string    `json:"final"`
}
