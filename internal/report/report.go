package report

import (
	"github.com/appetiteclub/floor/internal/summary"
	"github.com/appetiteclub/floor/internal/tables"
	"github.com/shopspring/decimal"
)

const TopItemsCount = 3

type TableLister interface {
	List() []tables.Table
}

type Ranker interface {
	TopN(n int) []summary.ItemCount
}

// Report is the end-of-session summary. TotalIncome, HighestSpending and
// TotalTips read live table state, so a table that has been freed contributes
// nothing. The Session* fields come from the ledger and include closed tables.
type Report struct {
	TotalIncome           decimal.Decimal     `json:"total_income"`
	HighestSpendingTable  int                 `json:"highest_spending_table_id"`
	HighestSpendingAmount decimal.Decimal     `json:"highest_spending_amount"`
	TopItems              []summary.ItemCount `json:"top_items"`
	TotalTips             decimal.Decimal     `json:"total_tips"`

	SessionIncome decimal.Decimal `json:"session_income"`
	SessionTips   decimal.Decimal `json:"session_tips"`
	TablesClosed  int             `json:"tables_closed"`
}

// Generator builds reports without mutating anything.
type Generator struct {
	tables TableLister
	ranker Ranker
	ledger *Ledger
}

func NewGenerator(tables TableLister, ranker Ranker, ledger *Ledger) *Generator {
	if ledger == nil {
		ledger = NewLedger()
	}
	return &Generator{tables: tables, ranker: ranker, ledger: ledger}
}

// Generate walks tables in id order. The highest spender is the first table
// with the maximum bill, so ties go to the lowest id.
func (g *Generator) Generate() Report {
	r := Report{
		TotalIncome:           decimal.Zero,
		HighestSpendingAmount: decimal.Zero,
		TotalTips:             decimal.Zero,
		TopItems:              g.ranker.TopN(TopItemsCount),
	}

	for i, t := range g.tables.List() {
		r.TotalIncome = r.TotalIncome.Add(t.Bill)
		r.TotalTips = r.TotalTips.Add(t.Tip)
		if i == 0 || t.Bill.GreaterThan(r.HighestSpendingAmount) {
			r.HighestSpendingTable = t.ID
			r.HighestSpendingAmount = t.Bill
		}
	}

	totals := g.ledger.Totals()
	r.SessionIncome = totals.Income
	r.SessionTips = totals.Tips
	r.TablesClosed = totals.TablesClosed

	return r
}
