package floor

import (
	"github.com/appetiteclub/floor/internal/billing"
	"github.com/appetiteclub/floor/internal/report"
	"github.com/shopspring/decimal"
)

type PlaceOrderRequest struct {
	Items []string `json:"items"`
}

type PaymentMethodRequest struct {
	Method string `json:"method"`
}

// CloseTableRequest accepts the tip as a JSON number or string. A payment
// method, when given, is stored only if the close succeeds.
type CloseTableRequest struct {
	Tip           decimal.Decimal `json:"tip"`
	PaymentMethod string          `json:"payment_method,omitempty"`
}

func ValidatePlaceOrder(req PlaceOrderRequest) []string {
	var errs []string

	if len(req.Items) == 0 {
		errs = append(errs, "items are required")
	}

	return errs
}

type BillView struct {
	TableID       int    `json:"table_id"`
	PaymentMethod string `json:"payment_method,omitempty"`
	Bill          string `json:"bill"`
	Display       string `json:"display"`
}

type ReceiptView struct {
	billing.Receipt
	BillDisplay  string `json:"bill_display"`
	TipDisplay   string `json:"tip_display"`
	FinalDisplay string `json:"final_display"`
}

func (s *Session) ReceiptView(r billing.Receipt) ReceiptView {
	return ReceiptView{
		Receipt:      r,
		BillDisplay:  s.Money(r.Bill),
		TipDisplay:   s.Money(r.Tip),
		FinalDisplay: s.Money(r.Final),
	}
}

type MenuItemView struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Display  string `json:"display"`
	Course   string `json:"course,omitempty"`
	Priority bool   `json:"priority"`
}

type ReportView struct {
	report.Report
	TotalIncomeDisplay   string `json:"total_income_display"`
	HighestSpendDisplay  string `json:"highest_spending_display"`
	TotalTipsDisplay     string `json:"total_tips_display"`
	SessionIncomeDisplay string `json:"session_income_display"`
	SessionTipsDisplay   string `json:"session_tips_display"`
}

func (s *Session) ReportView(r report.Report) ReportView {
	return ReportView{
		Report:               r,
		TotalIncomeDisplay:   s.Money(r.TotalIncome),
		HighestSpendDisplay:  s.Money(r.HighestSpendingAmount),
		TotalTipsDisplay:     s.Money(r.TotalTips),
		SessionIncomeDisplay: s.Money(r.SessionIncome),
		SessionTipsDisplay:   s.Money(r.SessionTips),
	}
}
