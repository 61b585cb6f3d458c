package subject

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"FacultyQuizPortal/internal/apperr"
)

// Registry resolves subject names to canonical documents. Both the
// assignment and quiz services depend on this interface.
type Registry interface {
	FindOrCreate(ctx context.Context, name string) (*Subject, error)
	FindByName(ctx context.Context, name string) (*Subject, error)
}

// Repository handles DB operations for the subjects collection.
type Repository struct {
	collection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{collection: db.Collection("subjects")}
}

// FindOrCreate resolves a subject name to its canonical document,
// inserting it when absent. The lookup and insert are one atomic
// findOneAndUpdate with upsert, so two faculty saving the same new
// subject concurrently still end up with a single document.
func (r *Repository) FindOrCreate(ctx context.Context, name string) (*Subject, error) {
	clean, lower := Normalize(name)
	if clean == "" {
		return nil, apperr.NewValidation("subject name is required", "subject")
	}

	filter := bson.M{"name_lower": lower}
	update := bson.M{"$setOnInsert": bson.M{
		"_id":        primitive.NewObjectID(),
		"name":       clean,
		"name_lower": lower,
	}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var subj Subject
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&subj); err != nil {
		return nil, err
	}
	return &subj, nil
}

// FindByName looks up a subject by name without creating it.
func (r *Repository) FindByName(ctx context.Context, name string) (*Subject, error) {
	_, lower := Normalize(name)
	var subj Subject
	err := r.collection.FindOne(ctx, bson.M{"name_lower": lower}).Decode(&subj)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &subj, nil
}
