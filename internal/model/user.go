package model

import "time"

// User is a registered account.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password"`
	Role         string    `json:"role" bson:"role"`
	Country      string    `json:"country" bson:"country"`
	Gender       string    `json:"gender" bson:"gender"`
	Age          int       `json:"age" bson:"age"`
	CreatedAt    time.Time `json:"created_at" bson:"createdAt"`
}

// Roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Genders.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// ValidRole reports whether role is a known role.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}

// RoleAtLeast checks if role meets or exceeds the minimum required role.
func RoleAtLeast(role, minimum string) bool {
	levels := map[string]int{
		RoleAdmin: 2,
		RoleUser:  1,
	}
	return levels[role] >= levels[minimum]
}
