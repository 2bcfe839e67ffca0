package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/etuition/etuition-server/internal/models"
)

type mongoPaymentRepository struct {
	db           *mongo.Database
	payments     *mongo.Collection
	applications *mongo.Collection
}

// NewPaymentRepository returns a PaymentRepository backed by the
// payments collection of db. It also touches the applications
// collection: settlement flips the referenced application to paid in
// the same transaction.
func NewPaymentRepository(db *mongo.Database) PaymentRepository {
	return &mongoPaymentRepository{
		db:           db,
		payments:     db.Collection(paymentsCollection),
		applications: db.Collection(applicationsCollection),
	}
}

// Settle inserts the payment and marks the referenced application paid
// inside one multi-document transaction. WithTransaction retries
// transient errors and unknown commit results on its own.
func (r *mongoPaymentRepository) Settle(ctx context.Context, p *models.Payment) error {
	appOID, err := objectID(p.AppID)
	if err != nil {
		return err
	}
	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.payments.InsertOne(sc, p); err != nil {
			return nil, fmt.Errorf("inserting payment: %w", err)
		}
		res, err := r.applications.UpdateOne(sc,
			bson.M{"_id": appOID},
			bson.M{"$set": bson.M{"status": models.ApplicationPaid}})
		if err != nil {
			return nil, fmt.Errorf("marking application paid: %w", err)
		}
		if res.MatchedCount == 0 {
			return nil, ErrNotFound
		}
		return nil, nil
	})
	return err
}

func (r *mongoPaymentRepository) FindByTutor(ctx context.Context, email string) ([]models.Payment, error) {
	return r.findSorted(ctx, bson.M{"tutorEmail": email})
}

func (r *mongoPaymentRepository) FindByStudent(ctx context.Context, email string) ([]models.Payment, error) {
	return r.findSorted(ctx, bson.M{"studentEmail": email})
}

func (r *mongoPaymentRepository) findSorted(ctx context.Context, filter bson.M) ([]models.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := r.payments.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("finding payments: %w", err)
	}
	payments := []models.Payment{}
	if err := cur.All(ctx, &payments); err != nil {
		return nil, fmt.Errorf("decoding payments: %w", err)
	}
	return payments, nil
}

func (r *mongoPaymentRepository) SumAll(ctx context.Context) (float64, error) {
	return r.sum(ctx, bson.M{})
}

func (r *mongoPaymentRepository) SumByTutor(ctx context.Context, email string) (float64, error) {
	return r.sum(ctx, bson.M{"tutorEmail": email})
}

func (r *mongoPaymentRepository) sum(ctx context.Context, match bson.M) (float64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$salary"}}},
		}}},
	}
	cur, err := r.payments.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("summing payments: %w", err)
	}
	var out []struct {
		Total float64 `bson:"total"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return 0, fmt.Errorf("decoding payment sum: %w", err)
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Total, nil
}

func (r *mongoPaymentRepository) Count(ctx context.Context) (int64, error) {
	return r.payments.CountDocuments(ctx, bson.M{})
}

func (r *mongoPaymentRepository) CountByStudent(ctx context.Context, email string) (int64, error) {
	return r.payments.CountDocuments(ctx, bson.M{"studentEmail": email})
}
