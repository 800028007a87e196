package floor

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/appetiteclub/apt"
	"github.com/go-chi/chi/v5"
)

type testResponse struct {
	Data  json.RawMessage        `json:"data"`
	Meta  map[string]interface{} `json:"meta"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestRouter(t *testing.T, opts ...Option) (*Session, http.Handler) {
	t.Helper()
	s := newTestSession(t, opts...)
	h := NewHandler(s, apt.NewConfig(), apt.NewNoopLogger())
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return s, r
}

func do(t *testing.T, router http.Handler, method, path, body string) (*httptest.ResponseRecorder, testResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp testResponse
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("cannot decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, resp
}

func TestNewHandler(t *testing.T) {
	tests := []struct {
		name   string
		config *apt.Config
		logger apt.Logger
	}{
		{name: "withAllDependencies", config: apt.NewConfig(), logger: apt.NewNoopLogger()},
		{name: "withNilLogger", config: apt.NewConfig(), logger: nil},
		{name: "withNilConfig", config: nil, logger: apt.NewNoopLogger()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(newTestSession(t), tt.config, tt.logger)
			if h == nil {
				t.Error("NewHandler() returned nil")
			}
		})
	}
}

func TestHandlerTableLifecycle(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
		expectedCode   string
	}{
		{name: "bookTable", method: http.MethodPost, path: "/tables/1/book", expectedStatus: http.StatusOK},
		{name: "bookAgain", method: http.MethodPost, path: "/tables/1/book", expectedStatus: http.StatusConflict, expectedCode: "table_already_occupied"},
		{name: "bookUnknownTable", method: http.MethodPost, path: "/tables/9/book", expectedStatus: http.StatusNotFound, expectedCode: "invalid_table_id"},
		{name: "bookNonNumericID", method: http.MethodPost, path: "/tables/abc/book", expectedStatus: http.StatusBadRequest, expectedCode: "invalid_table_id"},
		{name: "placeOrder", method: http.MethodPost, path: "/tables/1/orders", body: `{"items":["Goats Cheese","Salmon"]}`, expectedStatus: http.StatusOK},
		{name: "placeOrderEmpty", method: http.MethodPost, path: "/tables/1/orders", body: `{"items":[]}`, expectedStatus: http.StatusBadRequest},
		{name: "placeOrderUnknownField", method: http.MethodPost, path: "/tables/1/orders", body: `{"dishes":["Salmon"]}`, expectedStatus: http.StatusBadRequest},
		{name: "setBadMethod", method: http.MethodPut, path: "/tables/1/payment-method", body: `{"method":"cheque"}`, expectedStatus: http.StatusUnprocessableEntity, expectedCode: "invalid_payment_method"},
		{name: "closeWithoutMethod", method: http.MethodPost, path: "/tables/1/close", body: `{"tip":"1"}`, expectedStatus: http.StatusUnprocessableEntity, expectedCode: "invalid_payment_method"},
		{name: "setCard", method: http.MethodPut, path: "/tables/1/payment-method", body: `{"method":"card"}`, expectedStatus: http.StatusOK},
		{name: "getBill", method: http.MethodGet, path: "/tables/1/bill", expectedStatus: http.StatusOK},
		{name: "closeNegativeTip", method: http.MethodPost, path: "/tables/1/close", body: `{"tip":"-1"}`, expectedStatus: http.StatusUnprocessableEntity, expectedCode: "invalid_tip_amount"},
		{name: "closeTable", method: http.MethodPost, path: "/tables/1/close", body: `{"tip":5}`, expectedStatus: http.StatusOK},
		{name: "closeFreeTable", method: http.MethodPost, path: "/tables/1/close", body: `{"tip":0}`, expectedStatus: http.StatusConflict, expectedCode: "table_not_occupied"},
		{name: "billFreeTable", method: http.MethodGet, path: "/tables/1/bill", expectedStatus: http.StatusConflict, expectedCode: "table_not_occupied"},
		{name: "freeFreeTable", method: http.MethodPost, path: "/tables/1/free", expectedStatus: http.StatusConflict, expectedCode: "table_already_free"},
	}

	_, router := newTestRouter(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := do(t, router, tt.method, tt.path, tt.body)
			if rec.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d; body %s", rec.Code, tt.expectedStatus, rec.Body.String())
			}
			if tt.expectedCode != "" {
				if resp.Error == nil || resp.Error.Code != tt.expectedCode {
					t.Errorf("error = %+v, want code %q", resp.Error, tt.expectedCode)
				}
			}
		})
	}
}

func TestHandlerGetBill(t *testing.T) {
	s, router := newTestRouter(t)
	ctx := t.Context()

	_ = s.Book(ctx, 2)
	_, _ = s.PlaceOrder(ctx, 2, []string{"Goats Cheese", "Salmon"})
	_ = s.SetPaymentMethod(ctx, 2, "card")

	rec, resp := do(t, router, http.MethodGet, "/tables/2/bill", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var bill BillView
	if err := json.Unmarshal(resp.Data, &bill); err != nil {
		t.Fatalf("cannot decode bill: %v", err)
	}
	if bill.Bill != "65.978" || bill.Display != "£65.98" || bill.PaymentMethod != "card" {
		t.Errorf("bill = %+v, want 65.978 / £65.98 / card", bill)
	}
}

func TestHandlerCloseTableWithPaymentMethod(t *testing.T) {
	s, router := newTestRouter(t)
	ctx := t.Context()

	_ = s.Book(ctx, 3)
	_, _ = s.PlaceOrder(ctx, 3, []string{"Goats Cheese", "Salmon"})

	rec, resp := do(t, router, http.MethodPost, "/tables/3/close", `{"tip":"5.00","payment_method":"card"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	var receipt struct {
		TableID      int    `json:"table_id"`
		Final        string `json:"final"`
		FinalDisplay string `json:"final_display"`
	}
	if err := json.Unmarshal(resp.Data, &receipt); err != nil {
		t.Fatalf("cannot decode receipt: %v", err)
	}
	if receipt.TableID != 3 || receipt.Final != "70.978" || receipt.FinalDisplay != "£70.98" {
		t.Errorf("receipt = %+v, want table 3 final 70.978 (£70.98)", receipt)
	}

	tbl, _ := s.Table(3)
	if !tbl.IsFree() {
		t.Error("table 3 should be free after close")
	}
}

func TestHandlerCloseTableRejectedKeepsTable(t *testing.T) {
	s, router := newTestRouter(t)
	ctx := t.Context()

	_ = s.Book(ctx, 2)
	_, _ = s.PlaceOrder(ctx, 2, []string{"Salmon"})
	_ = s.SetPaymentMethod(ctx, 2, "cash")

	rec, resp := do(t, router, http.MethodPost, "/tables/2/close", `{"tip":"-1","payment_method":"card"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body %s", rec.Code, rec.Body.String())
	}
	if resp.Error == nil || resp.Error.Code != "invalid_tip_amount" {
		t.Errorf("error = %+v, want invalid_tip_amount", resp.Error)
	}

	tbl, _ := s.Table(2)
	if tbl.IsFree() {
		t.Error("table 2 should stay occupied after a rejected close")
	}
	if got := tbl.PaymentMethod.Code(); got != "cash" {
		t.Errorf("payment method = %q, want cash after a rejected close", got)
	}
}

func TestHandlerPlaceOrderResults(t *testing.T) {
	tests := []struct {
		name         string
		book         bool
		body         string
		wantAdded    float64
		wantRejected float64
	}{
		{name: "mixedItems", book: true, body: `{"items":["Salmon","Pizza"]}`, wantAdded: 1, wantRejected: 1},
		{name: "freeTable", book: false, body: `{"items":["Salmon"]}`, wantAdded: 0, wantRejected: 1},
		{name: "blankItem", book: true, body: `{"items":["Salmon","  "]}`, wantAdded: 1, wantRejected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, router := newTestRouter(t)
			if tt.book {
				_ = s.Book(t.Context(), 1)
			}

			rec, resp := do(t, router, http.MethodPost, "/tables/1/orders", tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			if resp.Meta["added"] != tt.wantAdded || resp.Meta["rejected"] != tt.wantRejected {
				t.Errorf("meta = %v, want added %v rejected %v", resp.Meta, tt.wantAdded, tt.wantRejected)
			}
		})
	}
}

func TestHandlerTickets(t *testing.T) {
	s, router := newTestRouter(t)
	ctx := t.Context()

	rec, resp := do(t, router, http.MethodPost, "/tickets/dispatch", "")
	if rec.Code != http.StatusOK || resp.Meta["status"] != "queue_empty" {
		t.Errorf("empty dispatch = %d %v, want 200 queue_empty", rec.Code, resp.Meta)
	}

	_ = s.Book(ctx, 1)
	_, _ = s.PlaceOrder(ctx, 1, []string{"Salmon", "Steak Diane"})

	rec, resp = do(t, router, http.MethodGet, "/tickets", "")
	if rec.Code != http.StatusOK || resp.Meta["count"] != float64(2) {
		t.Errorf("list tickets = %d %v, want 200 count 2", rec.Code, resp.Meta)
	}

	rec, resp = do(t, router, http.MethodPost, "/tickets/dispatch", "")
	if rec.Code != http.StatusOK || resp.Meta["status"] != "ready" {
		t.Fatalf("dispatch = %d %v, want 200 ready", rec.Code, resp.Meta)
	}
	var ticket struct {
		Item    string `json:"item"`
		TableID int    `json:"table_id"`
	}
	if err := json.Unmarshal(resp.Data, &ticket); err != nil {
		t.Fatalf("cannot decode ticket: %v", err)
	}
	if ticket.Item != "Steak Diane" || ticket.TableID != 1 {
		t.Errorf("ticket = %+v, want Steak Diane for table 1", ticket)
	}
}

func TestHandlerMenuAndTables(t *testing.T) {
	_, router := newTestRouter(t)

	rec, resp := do(t, router, http.MethodGet, "/menu", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("menu status = %d, want 200", rec.Code)
	}
	var menu struct {
		Items []MenuItemView `json:"items"`
	}
	if err := json.Unmarshal(resp.Data, &menu); err != nil {
		t.Fatalf("cannot decode menu: %v", err)
	}
	if len(menu.Items) != 19 {
		t.Errorf("menu items = %d, want 19", len(menu.Items))
	}

	rec, resp = do(t, router, http.MethodGet, "/tables", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("tables status = %d, want 200", rec.Code)
	}
	var tables struct {
		Tables []map[string]interface{} `json:"tables"`
	}
	if err := json.Unmarshal(resp.Data, &tables); err != nil {
		t.Fatalf("cannot decode tables: %v", err)
	}
	if len(tables.Tables) != 5 {
		t.Errorf("tables = %d, want 5", len(tables.Tables))
	}

	rec, _ = do(t, router, http.MethodGet, "/tables/2", "")
	if rec.Code != http.StatusOK {
		t.Errorf("get table status = %d, want 200", rec.Code)
	}
}

func TestHandlerGetReport(t *testing.T) {
	s, router := newTestRouter(t)
	ctx := t.Context()

	_ = s.Book(ctx, 2)
	_, _ = s.PlaceOrder(ctx, 2, []string{"Salmon", "Salmon", "Eton Mess"})
	_ = s.SetPaymentMethod(ctx, 2, "cash")
	_, _, _ = s.ComputeBill(2)

	rec, resp := do(t, router, http.MethodGet, "/report", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var report struct {
		TotalIncome          string `json:"total_income"`
		TotalIncomeDisplay   string `json:"total_income_display"`
		HighestSpendingTable int    `json:"highest_spending_table_id"`
		TopItems             []struct {
			Item  string `json:"item"`
			Count int    `json:"count"`
		} `json:"top_items"`
	}
	if err := json.Unmarshal(resp.Data, &report); err != nil {
		t.Fatalf("cannot decode report: %v", err)
	}
	if report.TotalIncome != "108.97" || report.TotalIncomeDisplay != "£108.97" {
		t.Errorf("income = %s (%s), want 108.97", report.TotalIncome, report.TotalIncomeDisplay)
	}
	if report.HighestSpendingTable != 2 {
		t.Errorf("highest spender = %d, want 2", report.HighestSpendingTable)
	}
	if len(report.TopItems) != 2 || report.TopItems[0].Item != "Salmon" || report.TopItems[0].Count != 2 {
		t.Errorf("top items = %+v, want Salmon x2 first", report.TopItems)
	}
}
