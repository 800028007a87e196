package tables

import (
	"fmt"

	"github.com/appetiteclub/floor/pkg/enums/paymentmethod"
	"github.com/appetiteclub/floor/pkg/enums/tablestatus"
	"github.com/shopspring/decimal"
)

// Table is one fixed seat group on the floor. Orders is the table's own log
// of items, independent of the kitchen queue.
type Table struct {
	ID            int
	Status        tablestatus.Status
	Orders        []string
	Bill          decimal.Decimal
	Tip           decimal.Decimal
	PaymentMethod paymentmethod.Method
}

func newTable(id int) Table {
	return Table{
		ID:            id,
		Status:        tablestatus.Statuses.Free,
		Orders:        []string{},
		Bill:          decimal.Zero,
		Tip:           decimal.Zero,
		PaymentMethod: paymentmethod.Methods.Unset,
	}
}

func (t *Table) IsFree() bool {
	return t.Status.IsFree()
}

// Occupy marks a free table as seated. The caller checks the status.
func (t *Table) Occupy() {
	t.Status = tablestatus.Statuses.Occupied
}

// AddOrder appends item to the table's order log. Menu checks are the caller's.
func (t *Table) AddOrder(item string) error {
	if t.IsFree() {
		return fmt.Errorf("table %d: %w", t.ID, ErrTableNotOccupied)
	}
	t.Orders = append(t.Orders, item)
	return nil
}

// Release returns the table to free and clears everything recorded while seated.
func (t *Table) Release() {
	t.Status = tablestatus.Statuses.Free
	t.Orders = []string{}
	t.Bill = decimal.Zero
	t.Tip = decimal.Zero
	t.PaymentMethod = paymentmethod.Methods.Unset
}

func (t Table) clone() Table {
	orders := make([]string, len(t.Orders))
	copy(orders, t.Orders)
	t.Orders = orders
	return t
}

// View is the presentation form of a table.
type View struct {
	ID            int      `json:"id"`
	Status        string   `json:"status"`
	StatusLabel   string   `json:"status_label"`
	Orders        []string `json:"orders"`
	Bill          string   `json:"bill"`
	Tip           string   `json:"tip"`
	PaymentMethod string   `json:"payment_method,omitempty"`
}

func (t Table) View() View {
	orders := make([]string, len(t.Orders))
	copy(orders, t.Orders)
	return View{
		ID:            t.ID,
		Status:        t.Status.Code(),
		StatusLabel:   t.Status.Label(),
		Orders:        orders,
		Bill:          t.Bill.String(),
		Tip:           t.Tip.String(),
		PaymentMethod: t.PaymentMethod.Code(),
	}
}
