package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const NotificationTermination = "termination"

// Notification is a best-effort side record; a failed write never
// rolls back the operation that produced it.
type Notification struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ReceiverEmail string             `bson:"receiverEmail" json:"receiverEmail"`
	SenderEmail   string             `bson:"senderEmail" json:"senderEmail"`
	Message       string             `bson:"message" json:"message"`
	Type          string             `bson:"type" json:"type"`
	Date          time.Time          `bson:"date" json:"date"`
}
