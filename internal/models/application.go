package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Application is a tutor's hiring request against a student's tuition.
// At most one application may exist per (tutor, student, subject)
// triple; the store layer enforces this with a pre-insert existence
// check, not a unique index.
type Application struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TutorEmail   string             `bson:"tutorEmail" json:"tutorEmail"`
	StudentEmail string             `bson:"studentEmail" json:"studentEmail"`
	Subject      string             `bson:"subject" json:"subject"`
	Salary       float64            `bson:"salary" json:"salary"`
	Status       ApplicationStatus  `bson:"status" json:"status"`
	AppliedDate  time.Time          `bson:"appliedDate" json:"appliedDate"`
}

// Party reports whether email is one of the two sides of the contract.
func (a *Application) Party(email string) bool {
	return email == a.TutorEmail || email == a.StudentEmail
}

// Counterpart returns the other side of the contract relative to
// email, or "" when email is not a party.
func (a *Application) Counterpart(email string) string {
	switch email {
	case a.TutorEmail:
		return a.StudentEmail
	case a.StudentEmail:
		return a.TutorEmail
	}
	return ""
}
