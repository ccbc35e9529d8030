package model

// NoteAudienceAll marks notes shown on the public home page.
const NoteAudienceAll = "all"

// Note is an administrator notice addressed to an audience such as "all",
// "staff" or "students".
type Note struct {
	ID        uint64 `json:"id"`         // special_notes.note_id
	Content   string `json:"content"`    // special_notes.content
	ForWhom   string `json:"for_whom"`   // special_notes.for_whom
	CreatedAt string `json:"created_at"` // special_notes.created_at
}
