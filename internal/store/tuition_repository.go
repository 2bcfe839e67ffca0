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

type mongoTuitionRepository struct {
	coll *mongo.Collection
}

// NewTuitionRepository returns a TuitionRepository backed by the
// tuitions collection of db.
func NewTuitionRepository(db *mongo.Database) TuitionRepository {
	return &mongoTuitionRepository{coll: db.Collection(tuitionsCollection)}
}

func (r *mongoTuitionRepository) FindByID(ctx context.Context, id string) (*models.Tuition, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var t models.Tuition
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding tuition by id: %w", err)
	}
	return &t, nil
}

func (r *mongoTuitionRepository) FindByStatus(ctx context.Context, status models.TuitionStatus) ([]models.Tuition, error) {
	return r.findSorted(ctx, bson.M{"status": status})
}

func (r *mongoTuitionRepository) FindByStudent(ctx context.Context, email string) ([]models.Tuition, error) {
	return r.findSorted(ctx, bson.M{"studentEmail": email})
}

func (r *mongoTuitionRepository) findSorted(ctx context.Context, filter bson.M) ([]models.Tuition, error) {
	opts := options.Find().SetSort(bson.D{{Key: "postedDate", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("finding tuitions: %w", err)
	}
	tuitions := []models.Tuition{}
	if err := cur.All(ctx, &tuitions); err != nil {
		return nil, fmt.Errorf("decoding tuitions: %w", err)
	}
	return tuitions, nil
}

func (r *mongoTuitionRepository) Insert(ctx context.Context, t *models.Tuition) (string, error) {
	res, err := r.coll.InsertOne(ctx, t)
	if err != nil {
		return "", fmt.Errorf("inserting tuition: %w", err)
	}
	return insertedHex(res), nil
}

func (r *mongoTuitionRepository) Update(ctx context.Context, id string, upd models.TuitionUpdate) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	set := bson.M{}
	if upd.Subject != nil {
		set["subject"] = *upd.Subject
	}
	if upd.Class != nil {
		set["class"] = *upd.Class
	}
	if upd.Salary != nil {
		set["salary"] = *upd.Salary
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	if len(set) == 0 {
		return nil
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("updating tuition: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoTuitionRepository) UpdateStatus(ctx context.Context, id string, status models.TuitionStatus) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return fmt.Errorf("updating tuition status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoTuitionRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("deleting tuition: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoTuitionRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *mongoTuitionRepository) CountByStudent(ctx context.Context, email string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"studentEmail": email})
}
