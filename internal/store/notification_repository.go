package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/etuition/etuition-server/internal/models"
)

type mongoNotificationRepository struct {
	coll *mongo.Collection
}

// NewNotificationRepository returns a NotificationRepository backed by
// the notifications collection of db.
func NewNotificationRepository(db *mongo.Database) NotificationRepository {
	return &mongoNotificationRepository{coll: db.Collection(notificationsCollection)}
}

func (r *mongoNotificationRepository) Insert(ctx context.Context, n *models.Notification) error {
	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}
	return nil
}
