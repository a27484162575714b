package models

import "time"

// ContactData holds the mutable fields of a contact. Update replaces all of
// them at once.
type ContactData struct {
	FirstName string
	LastName  string
	Email     *string
	Phone     *string
	// Birthday is a calendar date; only year, month and day are meaningful.
	Birthday *time.Time
}

// Contact is a person in the address book of exactly one user.
type Contact struct {
	ID     int64
	UserID int64
	ContactData
}
