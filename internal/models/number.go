package models

import "time"

// PhoneNumber is one stored subscriber number. This is ordinary
// application data managed through the CRUD API; the credential
// subsystem only gates access to it.
type PhoneNumber struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"`
	Label     string    `json:"label,omitempty"`
	AddedBy   string    `json:"added_by"`
	CreatedAt time.Time `json:"created_at"`
}
