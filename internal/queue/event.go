// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingQueueName is the durable queue booking events are published to.
const BookingQueueName = "booking.created"

// BookingCreatedEvent is published after a booking transaction commits.
// It carries enough for downstream consumers to log or notify without
// querying the primary database.
type BookingCreatedEvent struct {
	BookingID   uint64  `json:"booking_id"`
	TimetableID uint64  `json:"timetable_id"`
	UserID      uint64  `json:"user_id"`
	HallID      uint64  `json:"hall_id"`
	HallName    string  `json:"hall_name"`
	BookingType string  `json:"booking_type"`
	ModuleCode  *string `json:"module_code,omitempty"`
	EventName   *string `json:"event_name,omitempty"`
	Date        string  `json:"date"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	CreatedAt   string  `json:"created_at"`
}

// Label returns the module code or event name of the booking.
func (e BookingCreatedEvent) Label() string {
	switch {
	case e.ModuleCode != nil:
		return *e.ModuleCode
	case e.EventName != nil:
		return *e.EventName
	}
	return "Reserved"
}
