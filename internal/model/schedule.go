package model

// BookingType distinguishes lecture commitments from event commitments in
// both the timetable and the bookings ledger.
type BookingType string

const (
	BookingLecture BookingType = "Lecture"
	BookingEvent   BookingType = "Event"
)

// Module is a taught course unit.  Lecture bookings reference a module by
// its unique code; modules are created when a staff member is registered
// as teaching them.
//
// Fields:
//  ID   – primary key identifier.
//  Code – unique module code (e.g. EE2201).
//  Name – display name; defaults to the code when created implicitly.
type Module struct {
	ID   uint64 `json:"module_id"`   // modules.module_id
	Code string `json:"module_code"` // modules.module_code
	Name string `json:"name"`        // modules.name
}

// Event is created once per event booking and referenced by both the
// timetable row and the booking row of that commitment.
//
// Fields:
//  ID                 – primary key identifier.
//  Name               – event title shown on the timetable.
//  Society            – organising society (nullable).
//  TargetGroup        – audience, batch and department joined by a space.
//  LecturerInchargeID – user who booked the event.
type Event struct {
	ID                 uint64  `json:"event_id"`             // events.event_id
	Name               string  `json:"name"`                 // events.name
	Society            *string `json:"society"`              // events.society (nullable)
	TargetGroup        string  `json:"target_group"`         // events.target_group
	LecturerInchargeID uint64  `json:"lecturer_incharge_id"` // events.lecturer_incharge_id
}

// ScheduleEntry is a row of the timetable.  Exactly one of ModuleID and
// EventID is set.
//
// Fields:
//  ID        – primary key identifier.
//  HallID    – hall the commitment occupies.
//  Date      – YYYY-MM-DD.
//  StartTime – HH:MM:SS, on a 30 minute boundary.
//  EndTime   – HH:MM:SS, strictly after StartTime.
//  ModuleID  – lecture module (nil for events).
//  EventID   – event (nil for lectures).
type ScheduleEntry struct {
	ID        uint64  // timetable.timetable_id
	HallID    uint64  // timetable.hall_id
	Date      string  // timetable.date
	StartTime string  // timetable.start_time
	EndTime   string  // timetable.end_time
	ModuleID  *uint64 // timetable.module_id (nullable)
	EventID   *uint64 // timetable.event_id (nullable)
}

// ConflictEntry is one commitment in the merged read view of the
// timetable and the active bookings.  It carries enough to show a clash
// to the caller and to render the slot grid.
type ConflictEntry struct {
	HallID     uint64      `json:"hall_id"`
	HallName   string      `json:"hall_name"`
	Date       string      `json:"date"`
	StartTime  string      `json:"start_time"`
	EndTime    string      `json:"end_time"`
	Type       BookingType `json:"type"`
	ModuleID   *uint64     `json:"module_id,omitempty"`
	EventID    *uint64     `json:"event_id,omitempty"`
	ModuleCode *string     `json:"module_code"`
	EventName  *string     `json:"event_name"`
}

// Name returns the display label of the commitment: the module code for
// lectures, the event name for events, or "Reserved" when neither is known.
func (c ConflictEntry) Name() string {
	if c.ModuleCode != nil && *c.ModuleCode != "" {
		return *c.ModuleCode
	}
	if c.EventName != nil && *c.EventName != "" {
		return *c.EventName
	}
	return "Reserved"
}
