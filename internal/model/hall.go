package model

// Hall is a bookable room registered by an administrator.  The name is
// unique and is the key clients use when checking availability or
// booking, so the booking core only ever reads HallID by Name.
//
// Fields:
//  ID                  – primary key identifier.
//  Name                – unique hall name.
//  MainBuilding        – building the hall belongs to.
//  NoOfSeats           – seating capacity.
//  ACAvailable         – whether the hall is air conditioned.
//  NoOfProjectors      – number of installed projectors.
//  AssignedTechOfficer – technical officer responsible for the hall.
type Hall struct {
	ID                  uint64 `json:"hall_id"`               // halls.hall_id
	Name                string `json:"name"`                  // halls.name
	MainBuilding        string `json:"main_building"`         // halls.main_building
	NoOfSeats           uint32 `json:"no_of_seats"`           // halls.no_of_seats
	ACAvailable         bool   `json:"ac_available"`          // halls.ac_available
	NoOfProjectors      uint32 `json:"no_of_projectors"`      // halls.no_of_projectors
	AssignedTechOfficer string `json:"assigned_tech_officer"` // halls.assigned_tech_officer
}
