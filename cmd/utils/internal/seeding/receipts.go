package seeding

import (
	"context"
	"fmt"
	"time"

	"github.com/appetiteclub/floor/internal/billing"
	"github.com/appetiteclub/floor/internal/menu"
	"github.com/appetiteclub/floor/internal/tables"
	"github.com/appetiteclub/floor/pkg/enums/paymentmethod"
	"github.com/appetiteclub/floor/pkg/enums/tablestatus"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// demoNamespace keeps demo receipt ids stable so reseeding does not duplicate them.
var demoNamespace = uuid.MustParse("6f1c3f0e-4d1a-4f7e-9a57-2a4f3d6c9b10")

// ReceiptSaver is satisfied by mongo.ReceiptRepo.
type ReceiptSaver interface {
	Save(ctx context.Context, r billing.Receipt) error
}

type scenario struct {
	name    string
	tableID int
	items   []string
	method  paymentmethod.Method
	tip     string
	ago     time.Duration
}

var scenarios = []scenario{
	{
		name:    "couple-starters-and-mains",
		tableID: 1,
		items:   []string{"Goats Cheese", "Salmon"},
		method:  paymentmethod.Methods.Card,
		tip:     "5.00",
		ago:     3 * time.Hour,
	},
	{
		name:    "family-dinner",
		tableID: 3,
		items:   []string{"Cornish Crab", "Steak Diane", "Lamb Shank", "Eton Mess", "Eton Mess"},
		method:  paymentmethod.Methods.Cash,
		tip:     "12.00",
		ago:     2 * time.Hour,
	},
	{
		name:    "quick-lunch",
		tableID: 4,
		items:   []string{"Truffle Gnocchi"},
		method:  paymentmethod.Methods.Cash,
		tip:     "0",
		ago:     90 * time.Minute,
	},
	{
		name:    "celebration",
		tableID: 2,
		items:   []string{"Bloc de Pate", "Lobster Thermidor", "Lobster Thermidor"},
		method:  paymentmethod.Methods.Card,
		tip:     "20.00",
		ago:     45 * time.Minute,
	},
}

// DemoReceipts settles each demo scenario through the billing engine so the
// archived amounts match what the floor would have produced.
func DemoReceipts(catalog *menu.Catalog, now time.Time) ([]billing.Receipt, error) {
	receipts := make([]billing.Receipt, 0, len(scenarios))

	for _, sc := range scenarios {
		closedAt := now.Add(-sc.ago)
		engine, err := billing.NewEngine(catalog, billing.WithClock(func() time.Time { return closedAt }))
		if err != nil {
			return nil, err
		}

		t := &tables.Table{
			ID:            sc.tableID,
			Status:        tablestatus.Statuses.Occupied,
			Orders:        sc.items,
			Bill:          decimal.Zero,
			Tip:           decimal.Zero,
			PaymentMethod: sc.method,
		}

		r, err := engine.CloseTable(t, decimal.RequireFromString(sc.tip))
		if err != nil {
			return nil, fmt.Errorf("demo scenario %s: %w", sc.name, err)
		}
		r.ID = uuid.NewSHA1(demoNamespace, []byte(sc.name))
		receipts = append(receipts, r)
	}

	return receipts, nil
}

// SeedReceipts archives the demo receipts.
func SeedReceipts(ctx context.Context, store ReceiptSaver, catalog *menu.Catalog, now time.Time) (int, error) {
	receipts, err := DemoReceipts(catalog, now)
	if err != nil {
		return 0, err
	}

	for _, r := range receipts {
		if err := store.Save(ctx, r); err != nil {
			return 0, fmt.Errorf("cannot seed receipt for table %d: %w", r.TableID, err)
		}
	}
	return len(receipts), nil
}
