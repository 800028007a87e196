package tables

import (
	"errors"
	"fmt"
	"sync"

	"github.com/appetiteclub/floor/pkg/enums/paymentmethod"
)

const DefaultCount = 5

var (
	ErrInvalidTableID       = errors.New("invalid table id")
	ErrTableAlreadyOccupied = errors.New("table already occupied")
	ErrTableAlreadyFree     = errors.New("table already free")
	ErrTableNotOccupied     = errors.New("table not occupied")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

type slot struct {
	mu    sync.Mutex
	table Table
}

// Registry owns the fixed set of tables 1..N. Each table has its own lock so
// operations on different tables never contend.
type Registry struct {
	slots []*slot
}

func NewRegistry(count int) (*Registry, error) {
	if count <= 0 {
		return nil, fmt.Errorf("table count must be positive, got %d", count)
	}
	r := &Registry{slots: make([]*slot, count)}
	for i := range r.slots {
		r.slots[i] = &slot{table: newTable(i + 1)}
	}
	return r, nil
}

func (r *Registry) Count() int {
	return len(r.slots)
}

func (r *Registry) slot(id int) (*slot, error) {
	if id < 1 || id > len(r.slots) {
		return nil, fmt.Errorf("%w: %d (valid range 1..%d)", ErrInvalidTableID, id, len(r.slots))
	}
	return r.slots[id-1], nil
}

// Update runs fn while holding the table's lock. Any mutation fn makes is
// kept even if it returns an error, so fn must validate before it mutates.
func (r *Registry) Update(id int, fn func(t *Table) error) error {
	s, err := r.slot(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.table)
}

// IsFree and RecordOrderItem are the single-step forms of what a caller
// composes under Update; both go through the same Table methods.
func (r *Registry) IsFree(id int) (bool, error) {
	var free bool
	err := r.Update(id, func(t *Table) error {
		free = t.IsFree()
		return nil
	})
	return free, err
}

func (r *Registry) Book(id int) error {
	return r.Update(id, func(t *Table) error {
		if !t.IsFree() {
			return fmt.Errorf("table %d: %w", id, ErrTableAlreadyOccupied)
		}
		t.Occupy()
		return nil
	})
}

func (r *Registry) Free(id int) error {
	return r.Update(id, func(t *Table) error {
		if t.IsFree() {
			return fmt.Errorf("table %d: %w", id, ErrTableAlreadyFree)
		}
		t.Release()
		return nil
	})
}

func (r *Registry) RecordOrderItem(id int, item string) error {
	return r.Update(id, func(t *Table) error {
		return t.AddOrder(item)
	})
}

func (r *Registry) SetPaymentMethod(id int, method paymentmethod.Method) error {
	if !method.IsSet() || paymentmethod.ByName(method.Name) == nil {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, method.Name)
	}
	return r.Update(id, func(t *Table) error {
		if t.IsFree() {
			return fmt.Errorf("table %d: %w", id, ErrTableNotOccupied)
		}
		t.PaymentMethod = method
		return nil
	})
}

// Get returns a copy of the table.
func (r *Registry) Get(id int) (Table, error) {
	var out Table
	err := r.Update(id, func(t *Table) error {
		out = t.clone()
		return nil
	})
	return out, err
}

// List returns copies of all tables in id order. Each table is read under its
// own lock; the list is not a single atomic snapshot.
func (r *Registry) List() []Table {
	out := make([]Table, 0, len(r.slots))
	for _, s := range r.slots {
		s.mu.Lock()
		out = append(out, s.table.clone())
		s.mu.Unlock()
	}
	return out
}
