package event

import (
	"encoding/json"
	"time"
)

// Event is a typed message passed between the vehicle cascade, the results pipeline and the cart.
// Every state transition emits exactly one event.
type Event interface {
	EventType() string
	EventValue() ([]byte, error)
}

// Meta identifies the search and session an event belongs to
type Meta struct {
	SearchID  string    `json:"search_id,omitempty"`
	SessionID string    `json:"session_id"`
	Shop      string    `json:"shop,omitempty"`
	At        time.Time `json:"at"`
}

// DefaultEventValue provides a common implementation for EventValue
func DefaultEventValue(event interface{}) ([]byte, error) {
	return json.Marshal(event)
}

func UnmarshalEvent[T Event](data []byte) (T, error) {
	var e T
	err := json.Unmarshal(data, &e)
	return e, err
}

const (
	TypeSearchTriggered = "SearchTriggered"
	TypeFirstPageReady  = "FirstPageReady"
	TypeSummaryUpdated  = "SummaryUpdated"
	TypeSearchCompleted = "SearchCompleted"
	TypeSearchEmpty     = "SearchEmpty"
	TypeSearchFailed    = "SearchFailed"
	TypeCartItemAdded   = "CartItemAdded"
)

// Types lists every event type; one stream exists per type
var Types = []string{
	TypeSearchTriggered,
	TypeFirstPageReady,
	TypeSummaryUpdated,
	TypeSearchCompleted,
	TypeSearchEmpty,
	TypeSearchFailed,
	TypeCartItemAdded,
}
