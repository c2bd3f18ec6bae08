package entities

import "time"

// User is a member of an organization. Email addresses are unique across
// the whole system, not per organization.
type User struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	OrganizationID string    `json:"organizationId"`
	DateCreated    time.Time `json:"dateCreated"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
