package model

// Roles a user can hold.  Administrators manage halls and staff; staff
// and students can book.
const (
	RoleAdmin   = "ADMIN"
	RoleStaff   = "STAFF"
	RoleStudent = "STUDENT"
)

// User represents an application user record as stored in the `users`
// table.  Users log in with their registration number.
//
// Fields:
//  ID           – primary key identifier.
//  RegNo        – unique registration number used to log in.
//  Name         – display name.
//  PasswordHash – bcrypt hashed password.
//  Role         – ADMIN, STAFF or STUDENT.
//  IsActive     – whether the account may log in.
type User struct {
	ID           uint64 // users.user_id
	RegNo        string // users.reg_no
	Name         string // users.name
	PasswordHash string // users.password_hash
	Role         string // users.role
	IsActive     bool   // users.is_active
}

// Staff is the profile attached to a STAFF user.  Academic staff list the
// modules they teach.
//
// Fields:
//  UserID        – users.user_id of the staff member.
//  Department    – academic department.
//  Email         – contact email.
//  ContactNumber – phone number.
//  StaffType     – Academic or Non-Academic.
//  Modules       – codes of the modules taught (Academic only).
type Staff struct {
	UserID        uint64   `json:"staff_id"`       // staff.staff_id
	RegNo         string   `json:"reg_no"`         // users.reg_no
	Name          string   `json:"name"`           // users.name
	Department    string   `json:"department"`     // staff.department
	Email         string   `json:"email"`          // staff.email
	ContactNumber string   `json:"contact_number"` // staff.contact_number
	StaffType     string   `json:"staff_type"`     // staff.staff_type
	Modules       []string `json:"modules"`        // staff_modules joined to modules.module_code
}

// Student is a STUDENT user with the profile kept by administrators.
// Self-registered students have an empty profile until an administrator
// fills it in.
type Student struct {
	UserID           uint64 `json:"student_id"`         // users.user_id
	RegNo            string `json:"reg_no"`             // users.reg_no
	Name             string `json:"name"`               // users.name
	Email            string `json:"email"`              // students.email
	ContactNo        string `json:"contact_no"`         // students.contact_no
	Department       string `json:"department"`         // students.department
	Batch            string `json:"batch"`              // students.batch
	Purpose          string `json:"purpose"`            // students.purpose
	SocietyName      string `json:"society_name"`       // students.society_name
	LecturerInCharge string `json:"lecturer_in_charge"` // students.lecturer_in_charge
}
