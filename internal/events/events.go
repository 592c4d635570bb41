package events

import (
	"encoding/json"
	"fmt"

	"github.com/restosuite/venuestream/internal/realtime"
)

// Kind identifies a decoded event family. Known kinds use the wire event
// name verbatim.
type Kind string

const (
	KindTicketCreated Kind = "ticket_created"
	KindTicketUpdated Kind = "ticket_updated"
	KindTicketBumped  Kind = "ticket_bumped"
	KindSensorReading Kind = "sensor_reading"
	KindStockAlert    Kind = "stock_alert"
	KindStockDepleted Kind = "stock_depleted"
	KindAlert         Kind = "alert"
	KindNotification  Kind = "notification"
	KindUnknown       Kind = "unknown"
)

// TicketItem is one line of a kitchen ticket.
type TicketItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Notes    string `json:"notes,omitempty"`
}

// Ticket is a kitchen ticket lifecycle payload.
type Ticket struct {
	TicketID int          `json:"ticket_id"`
	OrderID  int          `json:"order_id,omitempty"`
	Station  string       `json:"station,omitempty"`
	Table    string       `json:"table,omitempty"`
	Status   string       `json:"status,omitempty"`
	Items    []TicketItem `json:"items,omitempty"`
}

// SensorReading is a hardware telemetry payload.
type SensorReading struct {
	DeviceID   string  `json:"device_id"`
	DeviceType string  `json:"device_type,omitempty"`
	Metric     string  `json:"metric,omitempty"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit,omitempty"`
}

// StockAlert is an inventory level payload, shared by stock_alert and
// stock_depleted events.
type StockAlert struct {
	ItemID    int     `json:"item_id"`
	Name      string  `json:"name,omitempty"`
	Level     float64 `json:"level"`
	Threshold float64 `json:"threshold,omitempty"`
	Unit      string  `json:"unit,omitempty"`
}

// Notification is a staff-facing notice, shared by alert and
// notification events.
type Notification struct {
	Title    string `json:"title"`
	Body     string `json:"body,omitempty"`
	Severity string `json:"severity,omitempty"`
}

// Event is a decoded stream message. Kind selects which payload pointer
// is set; Raw always carries the original payload bytes.
type Event struct {
	Kind    Kind
	Ticket  *Ticket
	Reading *SensorReading
	Stock   *StockAlert
	Note    *Notification
	Raw     json.RawMessage
}

// Classify maps a wire event name to its kind. Unrecognized names,
// including the protocol's own reserved ones, classify as KindUnknown.
func Classify(name string) Kind {
	switch Kind(name) {
	case KindTicketCreated, KindTicketUpdated, KindTicketBumped,
		KindSensorReading, KindStockAlert, KindStockDepleted,
		KindAlert, KindNotification:
		return Kind(name)
	default:
		return KindUnknown
	}
}

// Reserved reports whether name is claimed by the wire protocol rather
// than the venue domain.
func Reserved(name string) bool {
	switch name {
	case realtime.EventConnected, realtime.EventDisconnected,
		realtime.EventPing, realtime.EventPong, realtime.EventAuthSuccess,
		realtime.EventSubscribe, realtime.EventUnsubscribe:
		return true
	}
	return false
}

// Decode maps msg onto a typed event. Unknown events pass through with
// KindUnknown and their raw payload; a known kind whose payload does not
// parse returns the partially decoded event alongside the error.
func Decode(msg realtime.Message) (Event, error) {
	ev := Event{Kind: Classify(msg.Event), Raw: msg.Data}

	var err error
	switch ev.Kind {
	case KindTicketCreated, KindTicketUpdated, KindTicketBumped:
		var t Ticket
		if err = json.Unmarshal(payload(msg), &t); err == nil {
			ev.Ticket = &t
		}
	case KindSensorReading:
		var r SensorReading
		if err = json.Unmarshal(payload(msg), &r); err == nil {
			ev.Reading = &r
		}
	case KindStockAlert, KindStockDepleted:
		var s StockAlert
		if err = json.Unmarshal(payload(msg), &s); err == nil {
			ev.Stock = &s
		}
	case KindAlert, KindNotification:
		var n Notification
		if err = json.Unmarshal(payload(msg), &n); err == nil {
			ev.Note = &n
		}
	case KindUnknown:
		return ev, nil
	}
	if err != nil {
		return ev, fmt.Errorf("decode %s payload: %w", msg.Event, err)
	}
	return ev, nil
}

// payload treats an absent body as an empty object so kinds with
// all-optional fields decode cleanly.
func payload(msg realtime.Message) []byte {
	if len(msg.Data) == 0 {
		return []byte("{}")
	}
	return msg.Data
}
