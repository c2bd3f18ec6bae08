package entities

import "time"

// Organization is the top-level tenant entity. Users and orders always
// belong to exactly one organization.
type Organization struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Industry    string    `json:"industry"`
	DateFounded time.Time `json:"dateFounded"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
