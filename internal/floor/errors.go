package floor

import (
	"errors"

	"github.com/appetiteclub/floor/internal/billing"
	"github.com/appetiteclub/floor/internal/menu"
	"github.com/appetiteclub/floor/internal/tables"
)

var (
	ErrInvalidTableID       = tables.ErrInvalidTableID
	ErrTableAlreadyOccupied = tables.ErrTableAlreadyOccupied
	ErrTableAlreadyFree     = tables.ErrTableAlreadyFree
	ErrTableNotOccupied     = tables.ErrTableNotOccupied
	ErrInvalidPaymentMethod = tables.ErrInvalidPaymentMethod
	ErrItemNotOnMenu        = menu.ErrItemNotOnMenu
	ErrInvalidTipAmount     = billing.ErrInvalidTipAmount
	ErrUnknownMenuItem      = billing.ErrUnknownMenuItem
	ErrQueueEmpty           = errors.New("no tickets in queue")
)

// IsSoft reports whether err is a recoverable condition that leaves state
// unchanged and should be reported to the caller rather than treated as a
// failure.
func IsSoft(err error) bool {
	return errors.Is(err, ErrTableAlreadyOccupied) ||
		errors.Is(err, ErrTableAlreadyFree) ||
		errors.Is(err, ErrQueueEmpty)
}
