package viewstate

import (
	"slices"
	"time"

	"github.com/AvtMob/WeatherApp/internal/weatherapi"
)

// Field names one observable part of State.
type Field string

const (
	FieldInputText    Field = "input_text"
	FieldSuggestions  Field = "suggestions"
	FieldSnapshot     Field = "snapshot"
	FieldErrorMessage Field = "error_message"
)

// State is the controller's aggregate. Values handed out are copies; the
// snapshot pointer is shared and must be treated as read-only.
type State struct {
	InputText   string                        `json:"input_text"`
	Suggestions []weatherapi.SearchSuggestion `json:"suggestions"`
	Snapshot    *weatherapi.Snapshot          `json:"snapshot"`
	// ErrorMessage is empty when there is no error.
	ErrorMessage string `json:"error_message,omitempty"`
}

// HasError reports whether an error message is set.
func (s State) HasError() bool {
	return s.ErrorMessage != ""
}

func (s State) clone() State {
	out := s
	out.Suggestions = slices.Clone(s.Suggestions)
	if out.Suggestions == nil {
		out.Suggestions = []weatherapi.SearchSuggestion{}
	}
	return out
}

// Change is published once per state write.
type Change struct {
	Fields []Field   `json:"fields"`
	State  State     `json:"state"`
	Time   time.Time `json:"time"`
}

// Has reports whether f was written by this change.
func (c Change) Has(f Field) bool {
	return slices.Contains(c.Fields, f)
}
