package quiz

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"FacultyQuizPortal/internal/apperr"
)

// Repository handles DB operations for quizzes, questions and results,
// plus the lookups needed to populate responses.
type Repository struct {
	quizzesCollection   *mongo.Collection
	questionsCollection *mongo.Collection
	resultsCollection   *mongo.Collection
	subjectsCollection  *mongo.Collection
	facultyCollection   *mongo.Collection
}

func NewRepository(db *mongo.Database) *Repository {
	return &Repository{
		quizzesCollection:   db.Collection("quizzes"),
		questionsCollection: db.Collection("questions"),
		resultsCollection:   db.Collection("quizresults"),
		subjectsCollection:  db.Collection("subjects"),
		facultyCollection:   db.Collection("faculty"),
	}
}

func (r *Repository) InsertQuestions(ctx context.Context, questions []*Question) error {
	docs := make([]interface{}, len(questions))
	for i, q := range questions {
		docs[i] = q
	}
	_, err := r.questionsCollection.InsertMany(ctx, docs)
	return err
}

func (r *Repository) FindQuestionsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*Question, error) {
	if len(ids) == 0 {
		return []*Question{}, nil
	}
	cursor, err := r.questionsCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var questions []*Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	// $in does not preserve order; restore the quiz's sequence.
	byID := make(map[primitive.ObjectID]*Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	ordered := make([]*Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}
	return ordered, nil
}

func (r *Repository) InsertQuiz(ctx context.Context, quiz *Quiz) error {
	_, err := r.quizzesCollection.InsertOne(ctx, quiz)
	return err
}

// CountActive counts non-archived quizzes for a (subject, batch,
// semester) tuple, backing the 5-quiz ceiling.
func (r *Repository) CountActive(ctx context.Context, subjectID primitive.ObjectID, batch string, semester int) (int64, error) {
	filter := bson.M{
		"subject_id": subjectID,
		"batch":      batch,
		"semester":   semester,
		"status":     bson.M{"$ne": StatusArchived},
	}
	return r.quizzesCollection.CountDocuments(ctx, filter)
}

func (r *Repository) FindByID(ctx context.Context, id primitive.ObjectID) (*Quiz, error) {
	var quiz Quiz
	err := r.quizzesCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&quiz)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &quiz, nil
}

func (r *Repository) List(ctx context.Context, filter ListFilter) ([]*Quiz, error) {
	query := bson.M{}
	if filter.Batch != "" {
		query["batch"] = filter.Batch
	}
	if filter.Semester > 0 {
		query["semester"] = filter.Semester
	}
	if filter.SubjectID != "" {
		id, err := primitive.ObjectIDFromHex(filter.SubjectID)
		if err != nil {
			return nil, apperr.NewValidation("invalid subject id", "subject")
		}
		query["subject_id"] = id
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.quizzesCollection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	var quizzes []*Quiz
	if err := cursor.All(ctx, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *Repository) Update(ctx context.Context, id primitive.ObjectID, update QuizUpdate) error {
	set := bson.M{"updated_at": time.Now()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.TimeLimit != nil {
		set["time_limit"] = *update.TimeLimit
	}
	if update.Questions != nil {
		set["questions"] = *update.Questions
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.AvailabilityStatus != nil {
		set["availability_status"] = *update.AvailabilityStatus
		// A fresh schedule gets a fresh open-notification.
		if *update.AvailabilityStatus == AvailabilityScheduled {
			set["window_notified"] = false
		}
	}
	if update.ScheduledStartTime != nil {
		set["scheduled_start_time"] = *update.ScheduledStartTime
	}
	if update.ScheduledEndTime != nil {
		set["scheduled_end_time"] = *update.ScheduledEndTime
	}

	res, err := r.quizzesCollection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.quizzesCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *Repository) InsertResult(ctx context.Context, result *QuizResult) error {
	_, err := r.resultsCollection.InsertOne(ctx, result)
	return err
}

// ListResults returns every attempt joined with taker identity and quiz
// title for the results table.
func (r *Repository) ListResults(ctx context.Context) ([]*ResultRow, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.resultsCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	var results []*QuizResult
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}

	rows := make([]*ResultRow, 0, len(results))
	for _, res := range results {
		row := &ResultRow{
			ID:        res.ID.Hex(),
			UserName:  "Unknown User",
			UserEmail: "N/A",
			QuizTitle: "Unknown Quiz",
			Score:     res.TotalScore,
			TotalTime: res.TotalTime,
			EndedAt:   res.CreatedAt,
		}
		if name, email, err := r.FacultyInfo(ctx, res.StudentID); err == nil && name != "" {
			row.UserName = name
			row.UserEmail = email
		}
		var quiz Quiz
		if err := r.quizzesCollection.FindOne(ctx, bson.M{"_id": res.QuizID}).Decode(&quiz); err == nil {
			row.QuizTitle = quiz.Title
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// SubjectName resolves a subject id for response population.
func (r *Repository) SubjectName(ctx context.Context, id primitive.ObjectID) (string, error) {
	var doc struct {
		Name string `bson:"name"`
	}
	err := r.subjectsCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", nil
		}
		return "", err
	}
	return doc.Name, nil
}

// FacultyInfo resolves a faculty id to name and email.
func (r *Repository) FacultyInfo(ctx context.Context, id primitive.ObjectID) (string, string, error) {
	var doc struct {
		Name  string `bson:"name"`
		Email string `bson:"email"`
	}
	err := r.facultyCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", "", nil
		}
		return "", "", err
	}
	return doc.Name, doc.Email, nil
}

// FindWindowOpenings returns scheduled quizzes whose window has opened
// and whose creator has not yet been notified.
func (r *Repository) FindWindowOpenings(ctx context.Context, now time.Time) ([]*Quiz, error) {
	filter := bson.M{
		"availability_status":  AvailabilityScheduled,
		"scheduled_start_time": bson.M{"$lte": now},
		"window_notified":      false,
	}
	cursor, err := r.quizzesCollection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var quizzes []*Quiz
	if err := cursor.All(ctx, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}

func (r *Repository) MarkWindowNotified(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.quizzesCollection.UpdateByID(ctx, id, bson.M{"$set": bson.M{"window_notified": true}})
	return err
}

// ExpireScheduled flips scheduled quizzes whose window has closed back
// to availability off.
func (r *Repository) ExpireScheduled(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.M{
		"availability_status": AvailabilityScheduled,
		"scheduled_end_time":  bson.M{"$lte": now},
	}
	update := bson.M{"$set": bson.M{"availability_status": AvailabilityOff, "updated_at": now}}
	res, err := r.quizzesCollection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
