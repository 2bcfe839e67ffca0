package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tuition is a student's posting seeking a tutor.
type Tuition struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	StudentEmail string             `bson:"studentEmail" json:"studentEmail"`
	Subject      string             `bson:"subject" json:"subject"`
	Class        string             `bson:"class,omitempty" json:"class,omitempty"`
	Salary       float64            `bson:"salary" json:"salary"`
	Location     string             `bson:"location,omitempty" json:"location,omitempty"`
	Status       TuitionStatus      `bson:"status" json:"status"`
	PostedDate   time.Time          `bson:"postedDate" json:"postedDate"`
}

// TuitionUpdate carries the owner-editable fields of a posting. Nil
// pointers leave the stored value untouched.
type TuitionUpdate struct {
	Subject  *string  `json:"subject,omitempty"`
	Class    *string  `json:"class,omitempty"`
	Salary   *float64 `json:"salary,omitempty"`
	Location *string  `json:"location,omitempty"`
}
