package event

import "time"

const (
	// FloorTablesTopic delivers authoritative status changes for floor tables.
	FloorTablesTopic = "floor.tables"

	// EventTableStatusChanged identifies a table status change event payload.
	EventTableStatusChanged = "floor.table.status_changed"
	// EventTablePaymentMethodSet identifies a payment method selection.
	EventTablePaymentMethodSet = "floor.table.payment_method_set"
)

// TableStatusEvent captures a table's occupancy transition.
type TableStatusEvent struct {
	EventType      string    `json:"event_type"`
	TableID        int       `json:"table_id"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	PaymentMethod  string    `json:"payment_method,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	Source         string    `json:"source,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
