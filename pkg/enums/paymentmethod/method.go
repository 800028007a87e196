package paymentmethod

import "strings"

type Method struct {
	Name string
}

func (m Method) Code() string {
	return m.Name
}

func (m Method) Label() string {
	if len(m.Name) == 0 {
		return "Not set"
	}
	return strings.ToUpper(m.Name[:1]) + m.Name[1:]
}

// IsSet reports whether a settlement method has been chosen.
func (m Method) IsSet() bool {
	return m.Name != ""
}

type Enum struct {
	Unset Method
	Cash  Method
	Card  Method
}

var Methods = Enum{
	Unset: Method{Name: ""},
	Cash:  Method{Name: "cash"},
	Card:  Method{Name: "card"},
}

// Selectable lists the methods a caller may choose. Unset is only a reset value.
var Selectable = []Method{
	Methods.Cash,
	Methods.Card,
}

// ByName returns a selectable method by name (case-insensitive), or nil if not found.
func ByName(name string) *Method {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, m := range Selectable {
		if m.Name == name {
			return &m
		}
	}
	return nil
}
