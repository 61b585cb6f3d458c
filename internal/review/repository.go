package review

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"FacultyQuizPortal/internal/apperr"
)

// Repository handles DB operations for the review panels.
type Repository struct {
	projectsCollection *mongo.Collection
	researchCollection *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		projectsCollection: db.Collection("projects"),
		researchCollection: db.Collection("researchrequests"),
	}
}

func (r *Repository) ListProjects(ctx context.Context) ([]*Project, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.projectsCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var projects []*Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *Repository) FindProjectByID(ctx context.Context, id primitive.ObjectID) (*Project, error) {
	var p Project
	err := r.projectsCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *Repository) UpdateProjectStatus(ctx context.Context, id primitive.ObjectID, status, reviewedBy string) error {
	update := bson.M{"$set": bson.M{
		"status":      status,
		"reviewed_by": reviewedBy,
		"updated_at":  time.Now(),
	}}
	res, err := r.projectsCollection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *Repository) ListResearchRequests(ctx context.Context) ([]*ResearchRequest, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.researchCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var requests []*ResearchRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *Repository) UpdateResearchStatus(ctx context.Context, id primitive.ObjectID, status, reviewedBy string) error {
	update := bson.M{"$set": bson.M{
		"status":      status,
		"reviewed_by": reviewedBy,
		"updated_at":  time.Now(),
	}}
	res, err := r.researchCollection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
