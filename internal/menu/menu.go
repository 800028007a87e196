package menu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrItemNotOnMenu = errors.New("item not on menu")
	ErrInvalidEntry  = errors.New("invalid menu entry")
)

// DefaultPriorityDishes are the dishes routed through the kitchen's priority lane.
var DefaultPriorityDishes = []string{"Lobster Thermidor", "Steak Diane"}

type Entry struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Course   string          `json:"course,omitempty"`
	Priority bool            `json:"priority"`
}

// Catalog maps item names to prices. It is immutable once built, so lookups
// need no locking.
type Catalog struct {
	entries  []Entry
	byName   map[string]int
	priority map[string]struct{}
}

// NewCatalog validates entries and marks the given priority dishes.
// Names are matched exactly, including case.
func NewCatalog(entries []Entry, priorityDishes []string) (*Catalog, error) {
	c := &Catalog{
		entries:  make([]Entry, 0, len(entries)),
		byName:   make(map[string]int, len(entries)),
		priority: make(map[string]struct{}, len(priorityDishes)),
	}

	for _, e := range entries {
		if errs := ValidateEntry(e); len(errs) > 0 {
			return nil, fmt.Errorf("%w %q: %s", ErrInvalidEntry, e.Name, strings.Join(errs, ", "))
		}
		if _, dup := c.byName[e.Name]; dup {
			return nil, fmt.Errorf("%w %q: duplicate name", ErrInvalidEntry, e.Name)
		}
		e.Priority = false
		c.byName[e.Name] = len(c.entries)
		c.entries = append(c.entries, e)
	}

	for _, name := range priorityDishes {
		idx, ok := c.byName[name]
		if !ok {
			return nil, fmt.Errorf("priority dish %q: %w", name, ErrItemNotOnMenu)
		}
		c.priority[name] = struct{}{}
		c.entries[idx].Priority = true
	}

	return c, nil
}

// PriceOf returns the price of an item and whether it is on the menu.
func (c *Catalog) PriceOf(item string) (decimal.Decimal, bool) {
	idx, ok := c.byName[item]
	if !ok {
		return decimal.Zero, false
	}
	return c.entries[idx].Price, true
}

func (c *Catalog) Contains(item string) bool {
	_, ok := c.byName[item]
	return ok
}

func (c *Catalog) IsPriority(item string) bool {
	_, ok := c.priority[item]
	return ok
}

// Entries returns the menu in load order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

func ValidateEntry(e Entry) []string {
	var errs []string

	if strings.TrimSpace(e.Name) == "" {
		errs = append(errs, "name is required")
	}

	if e.Price.IsNegative() {
		errs = append(errs, "price cannot be negative")
	}

	return errs
}
