package tablestatus

import (
	"strings"
)

type Status struct {
	Name string
}

func (s Status) Code() string {
	return s.Name
}

func (s Status) Label() string {
	if len(s.Name) == 0 {
		return ""
	}
	return strings.ToUpper(s.Name[:1]) + s.Name[1:]
}

// IsFree reports whether the table can be booked.
func (s Status) IsFree() bool {
	return s.Name == Statuses.Free.Name
}

type Enum struct {
	Free     Status
	Occupied Status
}

var Statuses = Enum{
	Free:     Status{Name: "free"},
	Occupied: Status{Name: "occupied"},
}

var All = []Status{
	Statuses.Free,
	Statuses.Occupied,
}

// ByName returns the status for a given name, or nil if not found
func ByName(name string) *Status {
	for _, s := range All {
		if s.Name == name {
			return &s
		}
	}
	return nil
}
