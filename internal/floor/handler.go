package floor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	session *Session
	logger  apt.Logger
	config  *apt.Config
	tlm     *telemetry.HTTP
}

func NewHandler(session *Session, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		session: session,
		logger:  logger,
		config:  config,
		tlm:     telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tables", func(r chi.Router) {
		r.Get("/", h.ListTables)
		r.Get("/{id}", h.GetTable)
		r.Post("/{id}/book", h.BookTable)
		r.Post("/{id}/free", h.FreeTable)
		r.Post("/{id}/orders", h.PlaceOrder)
		r.Put("/{id}/payment-method", h.SetPaymentMethod)
		r.Get("/{id}/bill", h.GetBill)
		r.Post("/{id}/close", h.CloseTable)
	})
	r.Route("/tickets", func(r chi.Router) {
		r.Get("/", h.ListTickets)
		r.Post("/dispatch", h.DispatchNext)
	})
	r.Get("/menu", h.GetMenu)
	r.Get("/report", h.GetReport)
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", apt.RequestIDFrom(r.Context()))
}

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListTables")
	defer finish()

	list := h.session.ListTables()
	views := make([]interface{}, 0, len(list))
	for _, t := range list {
		views = append(views, t.View())
	}

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"tables": views,
	}, nil)
}

func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetTable")
	defer finish()
	log := h.log(r)

	id, ok := h.tableID(w, r)
	if !ok {
		return
	}

	t, err := h.session.Table(id)
	if err != nil {
		h.respondErr(w, log, err)
		return
	}

	apt.Respond(w, http.StatusOK, t.View(), nil)
}

func (h *Handler) BookTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.BookTable")
	defer finish()
	log := h.log(r)

	id, ok := h.tableID(w, r)
	if !ok {
		return
	}

	if err := h.session.Book(r.Context(), id); err != nil {
		h.respondErr(w, log, err)
		return
	}

	h.respondTable(w, log, id)
}

func (h *Handler) FreeTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.FreeTable")
	defer finish()
	log := h.log(r)

	id, ok := h.tableID(w, r)
	if !ok {
		return
	}

	if err := h.session.Free(r.Context(), id); err != nil {
		h.respondErr(w, log, err)
		return
	}

	h.respondTable(w, log, id)
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PlaceOrder")
	defer finish()
	log := h.log(r)

	id, ok := h.tableID(w, r)
	if !ok {
		return
	}

	var req PlaceOrderRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		log.Debugf("cannot decode place order request: %v", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if errs := ValidatePlaceOrder(req); len(errs) > 0 {
		apt.RespondError(w, http.StatusBadRequest, strings.Join(errs, "; "))
		return
	}

	results, err := h.session.PlaceOrder(r.Context(), id, req.Items)
	if err != nil {
		h.respondErr(w, log, err)
		return
	}

	added := 0
	for _, res := range results {
		if res.Status == ItemAdded {
			added++
		}
	}

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"table_id": id,
		"items":    results,
	}, map[string]interface{}{
		"added":    added,
		"rejected": len(results) - added,
	})
}

func (h *Handler) SetPaymentMethod(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.SetPaymentMethod")
	defer finish()
	log := h.log(r)

	id, ok := h.tableID(w, r)
	if !ok {
		return
	}

	var req PaymentMethodRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		log.Debugf("cannot decode payment method request: %v", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.session.SetPaymentMethod(r.Context(), id, req.Method); err != nil {
		h.respondErr(w, log, err)
		return
	}

	h.respondTable(w, log, id)
}

func (h *Handler) GetBill(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetBill")
	defer finish()
	log := h.log(r)

	id, ok := h.tableID(w, r)
	if !ok {
		return
	}

	bill, method, err := h.session.ComputeBill(id)
	if err != nil {
		h.respondErr(w, log, err)
		return
	}

	apt.Respond(w, http.StatusOK, BillView{
		TableID:       id,
		PaymentMethod: method.Code(),
		Bill:          bill.String(),
		Display:       h.session.Money(bill),
	}, nil)
}

func (h *Handler) CloseTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CloseTable")
	defer finish()
	log := h.log(r)

	id, ok := h.tableID(w, r)
	if !ok {
		return
	}

	var req CloseTableRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		log.Debugf("cannot decode close table request: %v", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	receipt, err := h.session.CloseTableWithMethod(r.Context(), id, req.Tip, req.PaymentMethod)
	if err != nil {
		h.respondErr(w, log, err)
		return
	}

	apt.Respond(w, http.StatusOK, h.session.ReceiptView(receipt), nil)
}

func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListTickets")
	defer finish()

	pending := h.session.PendingTickets()
	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"tickets": pending,
	}, map[string]interface{}{
		"count": len(pending),
	})
}

func (h *Handler) DispatchNext(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DispatchNext")
	defer finish()
	log := h.log(r)

	ticket, err := h.session.DispatchNext(r.Context())
	if errors.Is(err, ErrQueueEmpty) {
		apt.Respond(w, http.StatusOK, nil, map[string]interface{}{
			"status":  "queue_empty",
			"message": "No orders in queue",
		})
		return
	}
	if err != nil {
		h.respondErr(w, log, err)
		return
	}

	apt.Respond(w, http.StatusOK, ticket, map[string]interface{}{
		"status":  "ready",
		"message": fmt.Sprintf("%s is ready for table %d", ticket.Item, ticket.TableID),
	})
}

func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetMenu")
	defer finish()

	entries := h.session.Menu()
	items := make([]MenuItemView, 0, len(entries))
	for _, e := range entries {
		items = append(items, MenuItemView{
			Name:     e.Name,
			Price:    e.Price.String(),
			Display:  h.session.Money(e.Price),
			Course:   e.Course,
			Priority: e.Priority,
		})
	}

	apt.Respond(w, http.StatusOK, map[string]interface{}{
		"items": items,
	}, nil)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetReport")
	defer finish()

	apt.Respond(w, http.StatusOK, h.session.ReportView(h.session.Report()), nil)
}

func (h *Handler) respondTable(w http.ResponseWriter, log apt.Logger, id int) {
	t, err := h.session.Table(id)
	if err != nil {
		h.respondErr(w, log, err)
		return
	}
	apt.Respond(w, http.StatusOK, t.View(), nil)
}

func (h *Handler) tableID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		apt.Error(w, http.StatusBadRequest, "invalid_table_id", "Table ID must be a number")
		return 0, false
	}
	return id, true
}

func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer body.Close()

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

// respondErr maps floor errors to HTTP. Soft conditions are conflicts; a
// caller contract violation is a client error; anything unknown is a 500.
func (h *Handler) respondErr(w http.ResponseWriter, log apt.Logger, err error) {
	status, code := errorStatus(err)
	if status >= http.StatusInternalServerError {
		log.Errorf("floor operation failed: %v", err)
		apt.RespondError(w, status, "Could not complete operation")
		return
	}
	log.Debugf("floor operation rejected: %v", err)
	apt.Error(w, status, code, err.Error())
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidTableID):
		return http.StatusNotFound, "invalid_table_id"
	case errors.Is(err, ErrTableAlreadyOccupied):
		return http.StatusConflict, "table_already_occupied"
	case errors.Is(err, ErrTableAlreadyFree):
		return http.StatusConflict, "table_already_free"
	case errors.Is(err, ErrTableNotOccupied):
		return http.StatusConflict, "table_not_occupied"
	case errors.Is(err, ErrItemNotOnMenu):
		return http.StatusUnprocessableEntity, "item_not_on_menu"
	case errors.Is(err, ErrInvalidTipAmount):
		return http.StatusUnprocessableEntity, "invalid_tip_amount"
	case errors.Is(err, ErrInvalidPaymentMethod):
		return http.StatusUnprocessableEntity, "invalid_payment_method"
	case errors.Is(err, ErrUnknownMenuItem):
		return http.StatusInternalServerError, "unknown_menu_item"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
