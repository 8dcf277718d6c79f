package domain

import "time"

const (
	RoleAdmin  UserRole = "admin"
	RoleViewer UserRole = "viewer"
)

type UserRole string

// DemoDescription is the description every seeded demo part carries.
const DemoDescription = "Demo"

// Part is a detection class the vision pipeline can be trained on.
// Demo parts are seeded at startup and sit beside user-created ones.
type Part struct {
	ID          int64
	Name        string
	Description string
	IsDemo      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
