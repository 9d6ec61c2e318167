package identity

import "time"

// Role tags a user record. Immutable after creation.
type Role string

const (
	RoleStudent  Role = "student"
	RoleSecurity Role = "security"
	RoleAdmin    Role = "admin"
)

// User is the common envelope shared by every role. Password hashes live in
// the credentials table, never on the user record.
type User struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Student carries the fields specific to the student role.
type Student struct {
	User
	RollNumber  string `json:"rollNumber"`
	PhoneNumber string `json:"phoneNumber"`
	ImageURL    string `json:"imageUrl,omitempty"`
	IDCardURL   string `json:"idCardUrl,omitempty"`
}

// Security carries the fields specific to the security role.
type Security struct {
	User
	SecurityID string `json:"securityId"`
	Phone      string `json:"phone"`
	Status     string `json:"status"`
}

// Admin has no fields beyond the envelope.
type Admin struct {
	User
}

// SecurityActive is the initial status for registered security personnel.
const SecurityActive = "active"
