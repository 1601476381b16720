package models

import "time"

// Inquiry is a contact form submission
type Inquiry struct {
	ID         string    `json:"id"` // inq_{uuid}
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Company    string    `json:"company"`
	Message    string    `json:"message"`
	Lang       string    `json:"lang"`
	RemoteAddr string    `json:"-"`
	Notified   bool      `json:"notified"` // Notification email was sent
	CreatedAt  time.Time `json:"created_at"`
}

// DisplayCompany returns the company, or the contact name when no company was given.
func (i *Inquiry) DisplayCompany() string {
	if i.Company != "" {
		return i.Company
	}
	return i.Name
}
