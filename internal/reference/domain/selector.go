package domain

import (
	"strings"

	"github.com/bwmarrin/snowflake"
)

// Selector identifies a reference row either by id or by free text.
// The id wins when both are set; a zero Selector resolves to nothing.
type Selector struct {
	ID   snowflake.ID
	Name string
}

func ByID(id snowflake.ID) Selector {
	return Selector{ID: id}
}

func ByName(name string) Selector {
	return Selector{Name: name}
}

func (s Selector) HasID() bool {
	return s.ID != 0
}

func (s Selector) FreeText() string {
	return strings.TrimSpace(s.Name)
}
