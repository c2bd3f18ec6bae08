package entities

import "time"

// Order records a purchase made by a user. OrganizationID is denormalized
// from the owning user at creation time and never diverges from it.
type Order struct {
	ID             string    `json:"id"`
	TotalAmount    float64   `json:"totalAmount"`
	UserID         string    `json:"userId"`
	OrganizationID string    `json:"organizationId"`
	OrderDate      time.Time `json:"orderDate"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// OrderDetails is an order joined with its user and organization, returned
// by single-order reads.
type OrderDetails struct {
	Order
	User         *User         `json:"user,omitempty"`
	Organization *Organization `json:"organization,omitempty"`
}
