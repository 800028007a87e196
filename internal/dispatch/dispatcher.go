package dispatch

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

const (
	LanePriority = "priority"
	LaneStandard = "standard"
)

// PriorityOrder controls ordering inside the priority lane.
type PriorityOrder string

const (
	// PriorityLIFO dispatches the most recently queued priority ticket first.
	PriorityLIFO PriorityOrder = "lifo"
	// PriorityFIFO dispatches priority tickets in arrival order.
	PriorityFIFO PriorityOrder = "fifo"
)

func ParsePriorityOrder(s string) (PriorityOrder, error) {
	switch PriorityOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", PriorityLIFO:
		return PriorityLIFO, nil
	case PriorityFIFO:
		return PriorityFIFO, nil
	default:
		return "", fmt.Errorf("unknown priority order %q", s)
	}
}

// Dispatcher holds two lanes. The priority lane always drains before the
// standard lane; the standard lane is strict FIFO. Both lanes are kept in
// dispatch order so Next always takes the head.
type Dispatcher struct {
	mu       sync.Mutex
	priority []Ticket
	standard []Ticket
	order    PriorityOrder
	now      func() time.Time
}

type Option func(*Dispatcher)

func WithPriorityOrder(order PriorityOrder) Option {
	return func(d *Dispatcher) {
		d.order = order
	}
}

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		order: PriorityLIFO,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) Order() PriorityOrder {
	return d.order
}

// Enqueue stamps the ticket and places it in its lane. It returns the stamped
// ticket and the number of tickets now pending.
func (d *Dispatcher) Enqueue(t Ticket) (Ticket, int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	t.QueuedAt = d.now()

	switch {
	case !t.Priority:
		d.standard = append(d.standard, t)
	case d.order == PriorityFIFO:
		d.priority = append(d.priority, t)
	default:
		d.priority = append([]Ticket{t}, d.priority...)
	}

	return t, len(d.priority) + len(d.standard)
}

// Next removes and returns the head ticket. ok is false when both lanes are empty.
func (d *Dispatcher) Next() (t Ticket, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.priority) > 0 {
		t = d.priority[0]
		d.priority[0] = Ticket{}
		d.priority = d.priority[1:]
		return t, true
	}
	if len(d.standard) > 0 {
		t = d.standard[0]
		d.standard[0] = Ticket{}
		d.standard = d.standard[1:]
		return t, true
	}
	return Ticket{}, false
}

// Pending lists waiting tickets in the order Next would return them.
func (d *Dispatcher) Pending() []Ticket {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Ticket, 0, len(d.priority)+len(d.standard))
	out = append(out, d.priority...)
	out = append(out, d.standard...)
	return out
}

func (d *Dispatcher) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.priority) + len(d.standard)
}
