package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment records one settled charge. Documents are append-only; this
// layer never mutates or deletes them. AppID references the settled
// Application.
type Payment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AppID        string             `bson:"appId" json:"appId"`
	TutorEmail   string             `bson:"tutorEmail" json:"tutorEmail"`
	StudentEmail string             `bson:"studentEmail" json:"studentEmail"`
	Salary       float64            `bson:"salary" json:"salary"`
	Date         time.Time          `bson:"date" json:"date"`
}
