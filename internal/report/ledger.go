package report

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Totals are cumulative over the whole session, unlike the live table sums.
type Totals struct {
	Income       decimal.Decimal
	Tips         decimal.Decimal
	TablesClosed int
}

// Ledger accumulates settled bills at close time so they survive the table
// being released.
type Ledger struct {
	mu     sync.Mutex
	totals Totals
}

func NewLedger() *Ledger {
	return &Ledger{totals: Totals{Income: decimal.Zero, Tips: decimal.Zero}}
}

func (l *Ledger) Record(bill, tip decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.totals.Income = l.totals.Income.Add(bill)
	l.totals.Tips = l.totals.Tips.Add(tip)
	l.totals.TablesClosed++
}

func (l *Ledger) Totals() Totals {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totals
}
