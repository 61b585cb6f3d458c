package faculty

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"FacultyQuizPortal/internal/apperr"
)

// CardRepository handles DB operations for the facultycards collection.
type CardRepository struct {
	collection *mongo.Collection
}

func NewCardRepository(db *mongo.Database) *CardRepository {
	return &CardRepository{collection: db.Collection("facultycards")}
}

func (r *CardRepository) FindByKey(ctx context.Context, cardKey string) (*FacultyCard, error) {
	var card FacultyCard
	err := r.collection.FindOne(ctx, bson.M{"card_key": cardKey}).Decode(&card)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

func (r *CardRepository) FindByFaculty(ctx context.Context, facultyID primitive.ObjectID) (*FacultyCard, error) {
	var card FacultyCard
	err := r.collection.FindOne(ctx, bson.M{"faculty_id": facultyID}).Decode(&card)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

// FindStale returns a card belonging to the faculty but stored under a
// key other than the expected one. Used by the save-path migration.
func (r *CardRepository) FindStale(ctx context.Context, facultyID primitive.ObjectID, cardKey string) (*FacultyCard, error) {
	var card FacultyCard
	filter := bson.M{"faculty_id": facultyID, "card_key": bson.M{"$ne": cardKey}}
	err := r.collection.FindOne(ctx, filter).Decode(&card)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

func (r *CardRepository) Insert(ctx context.Context, card *FacultyCard) error {
	_, err := r.collection.InsertOne(ctx, card)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.NewConflict("card_key")
		}
		return err
	}
	return nil
}

func (r *CardRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// UpdateByKey rewrites the profile fields of the card stored under the
// given key, leaving the faculty link untouched.
func (r *CardRepository) UpdateByKey(ctx context.Context, cardKey string, card *FacultyCard) error {
	update := bson.M{"$set": bson.M{
		"name":              card.Name,
		"department":        card.Department,
		"position":          card.Position,
		"image_url":         card.ImageURL,
		"class_assignments": card.ClassAssignments,
		"updated_at":        card.UpdatedAt,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"card_key": cardKey}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// UpdateByFaculty rewrites a faculty's card including its key, adopting
// the card onto the new stable key.
func (r *CardRepository) UpdateByFaculty(ctx context.Context, facultyID primitive.ObjectID, card *FacultyCard) error {
	update := bson.M{"$set": bson.M{
		"card_key":          card.CardKey,
		"name":              card.Name,
		"department":        card.Department,
		"position":          card.Position,
		"image_url":         card.ImageURL,
		"class_assignments": card.ClassAssignments,
		"updated_at":        card.UpdatedAt,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"faculty_id": facultyID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
