package models

import (
	"time"
)

// Tenant is an organization whose users share an isolated asset library.
// Tenants are resolved from the email domain of the authenticated user.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Domain    string    `json:"domain"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}