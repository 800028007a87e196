package billing

import (
	"errors"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/floor/internal/tables"
	"github.com/appetiteclub/floor/pkg/enums/paymentmethod"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrUnknownMenuItem      = errors.New("unknown menu item on table")
	ErrInvalidTipAmount     = errors.New("invalid tip amount")
	ErrInvalidPaymentMethod = tables.ErrInvalidPaymentMethod
)

// DefaultCardSurcharge is applied to the whole subtotal of card payments.
var DefaultCardSurcharge = decimal.RequireFromString("0.10")

// PriceList resolves item prices. menu.Catalog satisfies it.
type PriceList interface {
	PriceOf(item string) (decimal.Decimal, bool)
}

// Engine computes bills. It holds no table state of its own; callers pass a
// table they have locked.
type Engine struct {
	prices    PriceList
	surcharge decimal.Decimal
	now       func() time.Time
}

type Option func(*Engine)

func WithCardSurcharge(rate decimal.Decimal) Option {
	return func(e *Engine) {
		e.surcharge = rate
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func NewEngine(prices PriceList, opts ...Option) (*Engine, error) {
	if prices == nil {
		return nil, errors.New("billing engine needs a price list")
	}
	e := &Engine{
		prices:    prices,
		surcharge: DefaultCardSurcharge,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.surcharge.IsNegative() {
		return nil, fmt.Errorf("card surcharge cannot be negative: %s", e.surcharge)
	}
	return e, nil
}

func (e *Engine) CardSurcharge() decimal.Decimal {
	return e.surcharge
}

// Subtotal sums the prices of the table's ordered items.
func (e *Engine) Subtotal(t *tables.Table) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range t.Orders {
		price, ok := e.prices.PriceOf(item)
		if !ok {
			return decimal.Zero, fmt.Errorf("table %d: %w: %q", t.ID, ErrUnknownMenuItem, item)
		}
		total = total.Add(price)
	}
	return total, nil
}

// Bill returns the amount due without touching the table. Card payments
// carry the surcharge; the result keeps full precision.
func (e *Engine) Bill(t *tables.Table) (decimal.Decimal, error) {
	subtotal, err := e.Subtotal(t)
	if err != nil {
		return decimal.Zero, err
	}
	if t.PaymentMethod == paymentmethod.Methods.Card {
		return subtotal.Mul(decimal.NewFromInt(1).Add(e.surcharge)), nil
	}
	return subtotal, nil
}

// ComputeBill computes the bill and stores it on the table.
func (e *Engine) ComputeBill(t *tables.Table) (decimal.Decimal, error) {
	bill, err := e.Bill(t)
	if err != nil {
		return decimal.Zero, err
	}
	t.Bill = bill
	return bill, nil
}

// Receipt is the settlement captured just before a table is released.
type Receipt struct {
	ID            uuid.UUID       `json:"id"`
	TableID       int             `json:"table_id"`
	Items         []string        `json:"items"`
	PaymentMethod string          `json:"payment_method"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Bill          decimal.Decimal `json:"bill"`
	Tip           decimal.Decimal `json:"tip"`
	Final         decimal.Decimal `json:"final"`
	ClosedAt      time.Time       `json:"closed_at"`
}

// CloseTable validates the tip and payment method, then stores bill and tip
// on the table. Nothing is mutated when validation fails. Releasing the
// table is left to the caller so the receipt reflects the seated state.
func (e *Engine) CloseTable(t *tables.Table, tip decimal.Decimal) (Receipt, error) {
	if tip.IsNegative() {
		return Receipt{}, fmt.Errorf("%w: %s", ErrInvalidTipAmount, tip)
	}
	if t.IsFree() {
		return Receipt{}, fmt.Errorf("table %d: %w", t.ID, tables.ErrTableNotOccupied)
	}
	if !t.PaymentMethod.IsSet() {
		return Receipt{}, fmt.Errorf("table %d: %w: not set", t.ID, ErrInvalidPaymentMethod)
	}

	subtotal, err := e.Subtotal(t)
	if err != nil {
		return Receipt{}, err
	}
	bill, err := e.Bill(t)
	if err != nil {
		return Receipt{}, err
	}

	t.Bill = bill
	t.Tip = tip

	items := make([]string, len(t.Orders))
	copy(items, t.Orders)

	return Receipt{
		ID:            apt.GenerateNewID(),
		TableID:       t.ID,
		Items:         items,
		PaymentMethod: t.PaymentMethod.Code(),
		Subtotal:      subtotal,
		Bill:          bill,
		Tip:           tip,
		Final:         bill.Add(tip),
		ClosedAt:      e.now(),
	}, nil
}
