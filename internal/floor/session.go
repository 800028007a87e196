package floor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/floor/internal/billing"
	"github.com/appetiteclub/floor/internal/dispatch"
	"github.com/appetiteclub/floor/internal/menu"
	"github.com/appetiteclub/floor/internal/report"
	"github.com/appetiteclub/floor/internal/summary"
	"github.com/appetiteclub/floor/internal/tables"
	"github.com/appetiteclub/floor/pkg/enums/paymentmethod"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ItemAdded            = "added"
	ItemNotOnMenu        = "not_on_menu"
	ItemTableNotOccupied = "table_not_occupied"
)

// ItemResult reports what happened to one item of a PlaceOrder call.
type ItemResult struct {
	Item     string     `json:"item"`
	Status   string     `json:"status"`
	TicketID *uuid.UUID `json:"ticket_id,omitempty"`
	Priority bool       `json:"priority,omitempty"`
}

// Err maps a rejected item back to its error.
func (r ItemResult) Err() error {
	switch r.Status {
	case ItemNotOnMenu:
		return fmt.Errorf("%w: %q", ErrItemNotOnMenu, r.Item)
	case ItemTableNotOccupied:
		return ErrTableNotOccupied
	default:
		return nil
	}
}

// Session is one service run of the restaurant floor. It owns every piece of
// mutable state; nothing lives in package variables.
//
// Locks are taken in the order table, queue, summary and never the reverse.
type Session struct {
	tables    *tables.Registry
	menu      *menu.Catalog
	queue     *dispatch.Dispatcher
	summary   *summary.Summary
	billing   *billing.Engine
	ledger    *report.Ledger
	reports   *report.Generator
	publisher events.Publisher
	receipts  ReceiptStore
	currency  string
	logger    apt.Logger
	now       func() time.Time
}

func NewSession(catalog *menu.Catalog, opts ...Option) (*Session, error) {
	if catalog == nil {
		return nil, errors.New("floor session needs a menu catalog")
	}

	cfg := settings{
		tableCount:    tables.DefaultCount,
		priorityOrder: dispatch.PriorityLIFO,
		cardSurcharge: billing.DefaultCardSurcharge,
		currency:      billing.DefaultCurrency,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = apt.NewNoopLogger()
	}

	registry, err := tables.NewRegistry(cfg.tableCount)
	if err != nil {
		return nil, err
	}

	engine, err := billing.NewEngine(catalog,
		billing.WithCardSurcharge(cfg.cardSurcharge),
		billing.WithClock(cfg.now),
	)
	if err != nil {
		return nil, err
	}

	counts := summary.New()
	ledger := report.NewLedger()

	return &Session{
		tables:    registry,
		menu:      catalog,
		queue:     dispatch.NewDispatcher(dispatch.WithPriorityOrder(cfg.priorityOrder), dispatch.WithClock(cfg.now)),
		summary:   counts,
		billing:   engine,
		ledger:    ledger,
		reports:   report.NewGenerator(registry, counts, ledger),
		publisher: cfg.publisher,
		receipts:  cfg.receipts,
		currency:  cfg.currency,
		logger:    cfg.logger,
		now:       cfg.now,
	}, nil
}

func (s *Session) Currency() string {
	return s.currency
}

// Money formats an amount for display.
func (s *Session) Money(amount decimal.Decimal) string {
	return billing.Money(s.currency, amount)
}

func (s *Session) Menu() []menu.Entry {
	return s.menu.Entries()
}

func (s *Session) ListTables() []tables.Table {
	return s.tables.List()
}

func (s *Session) Table(id int) (tables.Table, error) {
	return s.tables.Get(id)
}

func (s *Session) Book(ctx context.Context, id int) error {
	if err := s.tables.Book(id); err != nil {
		return err
	}
	s.logger.Info("table booked", "table_id", id)
	s.publishTableStatus(ctx, id, "free", "occupied", "booked")
	return nil
}

func (s *Session) Free(ctx context.Context, id int) error {
	if err := s.tables.Free(id); err != nil {
		return err
	}
	s.logger.Info("table freed", "table_id", id)
	s.publishTableStatus(ctx, id, "occupied", "free", "freed")
	return nil
}

// PlaceOrder logs each menu item on the table, queues a ticket for it and
// counts it in the summary. Items not on the menu are skipped and reported.
// A free table is left untouched and every item is reported as not occupied.
// Only an invalid table id returns an error.
func (s *Session) PlaceOrder(ctx context.Context, id int, items []string) ([]ItemResult, error) {
	results := make([]ItemResult, 0, len(items))
	type queuedTicket struct {
		ticket  dispatch.Ticket
		pending int
	}
	var queued []queuedTicket

	err := s.tables.Update(id, func(t *tables.Table) error {
		if t.IsFree() {
			for _, item := range items {
				results = append(results, ItemResult{Item: item, Status: ItemTableNotOccupied})
			}
			return nil
		}

		for _, item := range items {
			if !s.menu.Contains(item) {
				results = append(results, ItemResult{Item: item, Status: ItemNotOnMenu})
				continue
			}

			if err := t.AddOrder(item); err != nil {
				return err
			}
			ticket, n := s.queue.Enqueue(dispatch.NewTicket(id, item, s.menu.IsPriority(item)))
			s.summary.Record(item)

			ticketID := ticket.ID
			results = append(results, ItemResult{
				Item:     item,
				Status:   ItemAdded,
				TicketID: &ticketID,
				Priority: ticket.Priority,
			})
			queued = append(queued, queuedTicket{ticket: ticket, pending: n})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(queued) > 0 {
		s.logger.Info("order placed", "table_id", id, "items", len(queued), "pending", queued[len(queued)-1].pending)
	}
	for _, q := range queued {
		s.publishTicketQueued(ctx, q.ticket, q.pending)
	}

	return results, nil
}

// DispatchNext hands the next ticket to the kitchen. It never touches tables.
func (s *Session) DispatchNext(ctx context.Context) (dispatch.Ticket, error) {
	ticket, ok := s.queue.Next()
	if !ok {
		return dispatch.Ticket{}, ErrQueueEmpty
	}
	s.logger.Info("ticket ready", "table_id", ticket.TableID, "item", ticket.Item, "lane", ticket.Lane())
	s.publishTicketDispatched(ctx, ticket)
	return ticket, nil
}

func (s *Session) PendingTickets() []dispatch.Ticket {
	return s.queue.Pending()
}

func (s *Session) SetPaymentMethod(ctx context.Context, id int, name string) error {
	method := paymentmethod.ByName(name)
	if method == nil {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, name)
	}
	if err := s.tables.SetPaymentMethod(id, *method); err != nil {
		return err
	}
	s.logger.Info("payment method set", "table_id", id, "method", method.Code())
	s.publish(ctx, tableStatusTopic, tablePaymentEvent(id, method.Code(), s.now()))
	return nil
}

// ComputeBill calculates the occupied table's bill and stores it on the table.
// The payment method it was priced under is read in the same step.
func (s *Session) ComputeBill(id int) (decimal.Decimal, paymentmethod.Method, error) {
	var (
		bill   decimal.Decimal
		method paymentmethod.Method
	)
	err := s.tables.Update(id, func(t *tables.Table) error {
		if t.IsFree() {
			return fmt.Errorf("table %d: %w", id, ErrTableNotOccupied)
		}
		var err error
		bill, err = s.billing.ComputeBill(t)
		method = t.PaymentMethod
		return err
	})
	return bill, method, err
}

// CloseTable settles the table: the bill and tip are captured in the receipt,
// then the table is released. On error the table is unchanged and stays
// occupied.
func (s *Session) CloseTable(ctx context.Context, id int, tip decimal.Decimal) (billing.Receipt, error) {
	return s.CloseTableWithMethod(ctx, id, tip, "")
}

// CloseTableWithMethod closes the table paying by the named method. An empty
// name keeps the method already set. The method is only stored if the close
// succeeds.
func (s *Session) CloseTableWithMethod(ctx context.Context, id int, tip decimal.Decimal, methodName string) (billing.Receipt, error) {
	var method *paymentmethod.Method
	if methodName != "" {
		if method = paymentmethod.ByName(methodName); method == nil {
			return billing.Receipt{}, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, methodName)
		}
	}

	var receipt billing.Receipt
	err := s.tables.Update(id, func(t *tables.Table) error {
		settling := *t
		if method != nil {
			settling.PaymentMethod = *method
		}
		r, err := s.billing.CloseTable(&settling, tip)
		if err != nil {
			return err
		}
		receipt = r
		t.Release()
		return nil
	})
	if err != nil {
		return billing.Receipt{}, err
	}

	s.ledger.Record(receipt.Bill, receipt.Tip)
	s.logger.Info("table closed",
		"table_id", id,
		"bill", receipt.Bill.String(),
		"tip", receipt.Tip.String(),
		"final", s.Money(receipt.Final),
	)

	if method != nil {
		s.publish(ctx, tableStatusTopic, tablePaymentEvent(id, method.Code(), s.now()))
	}
	s.publishTableClosed(ctx, receipt)
	s.publishTableStatus(ctx, id, "occupied", "free", "closed")
	s.archive(ctx, receipt)

	return receipt, nil
}

func (s *Session) Report() report.Report {
	return s.reports.Generate()
}

func (s *Session) archive(ctx context.Context, r billing.Receipt) {
	if s.receipts == nil {
		return
	}
	if err := s.receipts.Save(ctx, r); err != nil {
		s.logger.Error("cannot archive receipt", "receipt_id", r.ID.String(), "table_id", r.TableID, "error", err)
	}
}
