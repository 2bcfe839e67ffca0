package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Role of a platform account. The platform super-admin is resolved by
// email without a store lookup, so a User document may omit the role
// entirely; an absent role reads as "student".
type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
	RoleAdmin   Role = "admin"
)

// ValidRole reports whether s names one of the known roles.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleStudent, RoleTutor, RoleAdmin:
		return true
	}
	return false
}

// User is an account document. Email is the natural key; at most one
// document exists per email.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email       string             `bson:"email" json:"email"`
	Role        Role               `bson:"role,omitempty" json:"role,omitempty"`
	Name        string             `bson:"name,omitempty" json:"name,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address     string             `bson:"address,omitempty" json:"address,omitempty"`
	Institution string             `bson:"institution,omitempty" json:"institution,omitempty"`
	Class       string             `bson:"class,omitempty" json:"class,omitempty"`
	Gender      string             `bson:"gender,omitempty" json:"gender,omitempty"`
}

// PublicProfile is the subset of a User visible to callers other than
// the account owner (or an admin).
type PublicProfile struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email"`
	Image       string `json:"image,omitempty"`
	Role        Role   `json:"role,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	Institution string `json:"institution,omitempty"`
	Class       string `json:"class,omitempty"`
	Gender      string `json:"gender,omitempty"`
}

// Public projects the user onto its public profile.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		Name:        u.Name,
		Email:       u.Email,
		Image:       u.Image,
		Role:        u.Role,
		Phone:       u.Phone,
		Address:     u.Address,
		Institution: u.Institution,
		Class:       u.Class,
		Gender:      u.Gender,
	}
}
