package auth

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"FacultyQuizPortal/internal/apperr"
)

// FacultyRepository handles DB operations for the faculty collection.
type FacultyRepository struct {
	collection *mongo.Collection
}

func NewFacultyRepository(db *mongo.Database) *FacultyRepository {
	return &FacultyRepository{collection: db.Collection("faculty")}
}

func (r *FacultyRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Faculty, error) {
	var f Faculty
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&f)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *FacultyRepository) FindByEmail(ctx context.Context, email string) (*Faculty, error) {
	var f Faculty
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&f)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *FacultyRepository) FindByAmizoneID(ctx context.Context, amizoneID string) (*Faculty, error) {
	var f Faculty
	err := r.collection.FindOne(ctx, bson.M{"amizone_id": amizoneID}).Decode(&f)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *FacultyRepository) Create(ctx context.Context, f *Faculty) error {
	_, err := r.collection.InsertOne(ctx, f)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// The register flow pre-checks both unique keys; a race can
			// still land here, so report the email as the likely culprit.
			return apperr.NewConflict("email")
		}
		return err
	}
	return nil
}

func (r *FacultyRepository) Update(ctx context.Context, f *Faculty) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": f.ID}, bson.M{"$set": f})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
