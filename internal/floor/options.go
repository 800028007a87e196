package floor

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/floor/internal/billing"
	"github.com/appetiteclub/floor/internal/dispatch"
	"github.com/appetiteclub/floor/internal/tables"
	"github.com/shopspring/decimal"
)

// ReceiptStore archives settled receipts. Archiving is best effort; a failure
// never undoes a close.
type ReceiptStore interface {
	Save(ctx context.Context, r billing.Receipt) error
}

type settings struct {
	tableCount    int
	priorityOrder dispatch.PriorityOrder
	cardSurcharge decimal.Decimal
	currency      string
	publisher     events.Publisher
	receipts      ReceiptStore
	logger        apt.Logger
	now           func() time.Time
}

type Option func(*settings)

func WithTableCount(n int) Option {
	return func(s *settings) { s.tableCount = n }
}

func WithPriorityOrder(order dispatch.PriorityOrder) Option {
	return func(s *settings) { s.priorityOrder = order }
}

func WithCardSurcharge(rate decimal.Decimal) Option {
	return func(s *settings) { s.cardSurcharge = rate }
}

func WithCurrency(symbol string) Option {
	return func(s *settings) { s.currency = symbol }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *settings) { s.publisher = p }
}

func WithReceiptStore(r ReceiptStore) Option {
	return func(s *settings) { s.receipts = r }
}

func WithLogger(l apt.Logger) Option {
	return func(s *settings) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

// ConfigOptions reads the floor settings from config.
func ConfigOptions(config *apt.Config) ([]Option, error) {
	if config == nil {
		return nil, nil
	}

	order, err := dispatch.ParsePriorityOrder(config.GetStringOrDef("dispatch.priority_order", string(dispatch.PriorityLIFO)))
	if err != nil {
		return nil, err
	}

	rate := billing.DefaultCardSurcharge
	if raw, ok := config.GetString("billing.card_surcharge"); ok && raw != "" {
		rate, err = decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid billing.card_surcharge %q: %w", raw, err)
		}
	}

	return []Option{
		WithTableCount(config.GetIntOrDef("tables.count", tables.DefaultCount)),
		WithPriorityOrder(order),
		WithCardSurcharge(rate),
		WithCurrency(config.GetStringOrDef("billing.currency", billing.DefaultCurrency)),
	}, nil
}
