package model

// BookingStatusBooked marks an active booking.  Only active bookings take
// part in overlap checks.
const BookingStatusBooked = "Booked"

// BookingEntry is a row of the bookings ledger.  It is written in the same
// transaction as its ScheduleEntry and describes the same hall, date and
// time.
//
// Fields:
//  ID          – primary key identifier.
//  HallID      – booked hall.
//  UserID      – owner of the booking (authenticated caller).
//  BookingType – Lecture or Event.
//  StartTime   – "YYYY-MM-DD HH:MM:SS".
//  EndTime     – "YYYY-MM-DD HH:MM:SS".
//  ModuleID    – lecture module (nil for events).
//  EventID     – event (nil for lectures).
//  Status      – Booked by default.
type BookingEntry struct {
	ID          uint64      `json:"booking_id"`   // bookings.booking_id
	HallID      uint64      `json:"hall_id"`      // bookings.hall_id
	UserID      uint64      `json:"user_id"`      // bookings.user_id
	BookingType BookingType `json:"booking_type"` // bookings.booking_type
	StartTime   string      `json:"start_time"`   // bookings.start_time
	EndTime     string      `json:"end_time"`     // bookings.end_time
	ModuleID    *uint64     `json:"module_id"`    // bookings.module_id (nullable)
	EventID     *uint64     `json:"event_id"`     // bookings.event_id (nullable)
	Status      string      `json:"status"`       // bookings.status
}

// BookingView is a booking joined with its hall and its module or event,
// used by the per-hall and per-user booking lists.
type BookingView struct {
	BookingEntry
	HallName   string  `json:"hall_name"`
	ModuleCode *string `json:"module_code"`
	EventName  *string `json:"event_name"`
}
