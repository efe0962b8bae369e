// internal/models/common.go
package models

import "time"

type UserRole string

const (
	RoleBuyer  UserRole = "buyer"
	RoleSeller UserRole = "seller"
)

// BlockedIP is an append-only record of a client that hit a scanner path.
// The collection is read once at startup to seed the deny-list.
type BlockedIP struct {
	ID        string    `json:"id"`
	IP        string    `json:"ip"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}
