package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/etuition/etuition-server/internal/models"
)

type mongoApplicationRepository struct {
	coll *mongo.Collection
}

// NewApplicationRepository returns an ApplicationRepository backed by
// the applications collection of db.
func NewApplicationRepository(db *mongo.Database) ApplicationRepository {
	return &mongoApplicationRepository{coll: db.Collection(applicationsCollection)}
}

func (r *mongoApplicationRepository) FindByID(ctx context.Context, id string) (*models.Application, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var a models.Application
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding application by id: %w", err)
	}
	return &a, nil
}

func (r *mongoApplicationRepository) FindByTutor(ctx context.Context, email string) ([]models.Application, error) {
	return r.findSorted(ctx, bson.M{"tutorEmail": email})
}

func (r *mongoApplicationRepository) FindByStudent(ctx context.Context, email string) ([]models.Application, error) {
	return r.findSorted(ctx, bson.M{"studentEmail": email})
}

func (r *mongoApplicationRepository) findSorted(ctx context.Context, filter bson.M) ([]models.Application, error) {
	opts := options.Find().SetSort(bson.D{{Key: "appliedDate", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("finding applications: %w", err)
	}
	apps := []models.Application{}
	if err := cur.All(ctx, &apps); err != nil {
		return nil, fmt.Errorf("decoding applications: %w", err)
	}
	return apps, nil
}

func (r *mongoApplicationRepository) Exists(ctx context.Context, tutorEmail, studentEmail, subject string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{
		"tutorEmail":   tutorEmail,
		"studentEmail": studentEmail,
		"subject":      subject,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("checking for duplicate application: %w", err)
	}
	return n > 0, nil
}

func (r *mongoApplicationRepository) Insert(ctx context.Context, a *models.Application) (string, error) {
	res, err := r.coll.InsertOne(ctx, a)
	if err != nil {
		return "", fmt.Errorf("inserting application: %w", err)
	}
	return insertedHex(res), nil
}

func (r *mongoApplicationRepository) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("updating application status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoApplicationRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("deleting application: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoApplicationRepository) CountByTutor(ctx context.Context, email string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"tutorEmail": email})
}

func (r *mongoApplicationRepository) CountByTutorAndStatus(ctx context.Context, email string, status models.ApplicationStatus) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"tutorEmail": email, "status": status})
}
