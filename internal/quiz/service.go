package quiz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"FacultyQuizPortal/internal/apperr"
	"FacultyQuizPortal/internal/auth"
	"FacultyQuizPortal/internal/subject"
)

// Store is the repository behavior the service depends on.
type Store interface {
	InsertQuestions(ctx context.Context, questions []*Question) error
	FindQuestionsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*Question, error)
	InsertQuiz(ctx context.Context, quiz *Quiz) error
	CountActive(ctx context.Context, subjectID primitive.ObjectID, batch string, semester int) (int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*Quiz, error)
	List(ctx context.Context, filter ListFilter) ([]*Quiz, error)
	Update(ctx context.Context, id primitive.ObjectID, update QuizUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	InsertResult(ctx context.Context, result *QuizResult) error
	ListResults(ctx context.Context) ([]*ResultRow, error)
	SubjectName(ctx context.Context, id primitive.ObjectID) (string, error)
	FacultyInfo(ctx context.Context, id primitive.ObjectID) (string, string, error)
}

type Service struct {
	repo     Store
	subjects subject.Registry
	logger   *zap.Logger
}

func NewService(repo Store, subjects subject.Registry, logger *zap.Logger) *Service {
	return &Service{repo: repo, subjects: subjects, logger: logger}
}

// Create validates and persists a quiz plus its questions. The
// non-archived count for (subject, batch, semester) must stay under the
// cap; nothing is persisted on a rejected request.
func (s *Service) Create(ctx context.Context, claims *auth.SessionClaims, req CreateQuizRequest) (*QuizView, error) {
	if err := auth.Require(claims, auth.ObjQuiz, auth.ActCreate); err != nil {
		return nil, err
	}

	var missing []string
	if strings.TrimSpace(req.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(req.SubjectName) == "" {
		missing = append(missing, "subjectName")
	}
	if strings.TrimSpace(req.Batch) == "" {
		missing = append(missing, "batch")
	}
	if req.Semester == 0 {
		missing = append(missing, "semester")
	}
	if req.TimeLimit == 0 {
		missing = append(missing, "timeLimit")
	}
	if len(missing) > 0 {
		return nil, apperr.NewValidation("missing required fields", missing...)
	}
	if req.TimeLimit < 0 {
		return nil, apperr.NewValidation("time limit must be greater than 0", "timeLimit")
	}
	if len(req.Questions) == 0 {
		return nil, apperr.NewValidation("quiz must have at least one question", "questions")
	}
	if len(req.Questions) > MaxQuestionsPerQuiz {
		return nil, apperr.NewValidation(
			fmt.Sprintf("quiz cannot have more than %d questions", MaxQuestionsPerQuiz), "questions")
	}

	creatorID, err := primitive.ObjectIDFromHex(claims.FacultyID)
	if err != nil {
		return nil, apperr.ErrUnauthorized
	}

	subj, err := s.subjects.FindOrCreate(ctx, req.SubjectName)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountActive(ctx, subj.ID, req.Batch, req.Semester)
	if err != nil {
		return nil, err
	}
	if count >= MaxQuizzesPerSubject {
		return nil, apperr.NewValidation(fmt.Sprintf(
			"maximum %d quizzes per subject reached: %d exist for %s in %s semester %d",
			MaxQuizzesPerSubject, count, subj.Name, req.Batch, req.Semester), "questions")
	}

	now := time.Now()
	questions := make([]*Question, 0, len(req.Questions))
	questionIDs := make([]primitive.ObjectID, 0, len(req.Questions))
	totalPoints := 0
	for _, in := range req.Questions {
		points := in.Points
		if points <= 0 {
			points = DefaultQuestionPoints
		}
		totalPoints += points
		q := &Question{
			ID:            primitive.NewObjectID(),
			SubjectID:     subj.ID,
			Type:          in.Type,
			Text:          in.Text,
			Options:       in.Options,
			CorrectAnswer: in.CorrectAnswer,
			Points:        points,
			Difficulty:    in.Difficulty,
			TimeAllowed:   in.TimeAllowed,
			TestCases:     in.TestCases,
			CreatedBy:     creatorID,
			CreatedAt:     now,
		}
		questions = append(questions, q)
		questionIDs = append(questionIDs, q.ID)
	}
	if err := s.repo.InsertQuestions(ctx, questions); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = StatusDraft
	}
	availability := req.AvailabilityStatus
	if availability == "" {
		availability = AvailabilityOff
	}
	quiz := &Quiz{
		ID:                 primitive.NewObjectID(),
		Title:              req.Title,
		Description:        req.Description,
		SubjectID:          subj.ID,
		Batch:              req.Batch,
		Semester:           req.Semester,
		Section:            req.Section,
		TimeLimit:          req.TimeLimit,
		Questions:          questionIDs,
		TotalPoints:        totalPoints,
		CreatedBy:          creatorID,
		Status:             status,
		AvailabilityStatus: availability,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.InsertQuiz(ctx, quiz); err != nil {
		return nil, err
	}
	s.logger.Info("quiz created",
		zap.String("title", quiz.Title),
		zap.String("subject", subj.Name),
		zap.Int("questions", len(questionIDs)))

	return s.populate(ctx, quiz, true)
}

// List returns quizzes matching the filter. Sessions without answer
// privileges only ever see published quizzes, whatever they asked for.
func (s *Service) List(ctx context.Context, claims *auth.SessionClaims, filter ListFilter) ([]*QuizListItem, error) {
	if claims == nil {
		return nil, apperr.ErrUnauthorized
	}
	if !auth.Allowed(claims.Roles, auth.ObjQuiz, auth.ActReadAnswers) {
		filter.Status = StatusPublished
	}

	quizzes, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]*QuizListItem, 0, len(quizzes))
	for _, q := range quizzes {
		item := &QuizListItem{Quiz: *q}
		item.SubjectName, _ = s.repo.SubjectName(ctx, q.SubjectID)
		item.CreatorName, _, _ = s.repo.FacultyInfo(ctx, q.CreatedBy)
		items = append(items, item)
	}
	return items, nil
}

// Get returns one quiz with subject, creator and questions populated.
// Non-privileged readers get the questions with answers stripped.
func (s *Service) Get(ctx context.Context, claims *auth.SessionClaims, idHex string) (*QuizView, error) {
	if claims == nil {
		return nil, apperr.ErrUnauthorized
	}
	quiz, err := s.find(ctx, idHex)
	if err != nil {
		return nil, err
	}
	privileged := auth.Allowed(claims.Roles, auth.ObjQuiz, auth.ActReadAnswers)
	return s.populate(ctx, quiz, privileged)
}

// Update mutates the whitelisted quiz fields.
func (s *Service) Update(ctx context.Context, claims *auth.SessionClaims, idHex string, req UpdateQuizRequest) (*QuizView, error) {
	if err := auth.Require(claims, auth.ObjQuiz, auth.ActUpdate); err != nil {
		return nil, err
	}
	quiz, err := s.find(ctx, idHex)
	if err != nil {
		return nil, err
	}

	update := QuizUpdate{
		Title:              req.Title,
		Description:        req.Description,
		TimeLimit:          req.TimeLimit,
		Status:             req.Status,
		AvailabilityStatus: req.AvailabilityStatus,
		ScheduledStartTime: req.ScheduledStartTime,
		ScheduledEndTime:   req.ScheduledEndTime,
	}
	if req.Status != nil && !validStatus(*req.Status) {
		return nil, apperr.NewValidation(fmt.Sprintf("invalid status: %s", *req.Status), "status")
	}
	if req.AvailabilityStatus != nil && !validAvailability(*req.AvailabilityStatus) {
		return nil, apperr.NewValidation(fmt.Sprintf("invalid availability status: %s", *req.AvailabilityStatus), "availabilityStatus")
	}
	if req.Questions != nil {
		if len(*req.Questions) > MaxQuestionsPerQuiz {
			return nil, apperr.NewValidation(
				fmt.Sprintf("quiz cannot have more than %d questions", MaxQuestionsPerQuiz), "questions")
		}
		ids := make([]primitive.ObjectID, 0, len(*req.Questions))
		for _, hex := range *req.Questions {
			id, err := primitive.ObjectIDFromHex(hex)
			if err != nil {
				return nil, apperr.NewValidation("invalid question id", "questions")
			}
			ids = append(ids, id)
		}
		update.Questions = &ids
	}

	if err := s.repo.Update(ctx, quiz.ID, update); err != nil {
		return nil, err
	}
	updated, err := s.repo.FindByID(ctx, quiz.ID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, updated, true)
}

// Delete removes a quiz. Admin capability only.
func (s *Service) Delete(ctx context.Context, claims *auth.SessionClaims, idHex string) error {
	if err := auth.Require(claims, auth.ObjQuiz, auth.ActDelete); err != nil {
		return err
	}
	quiz, err := s.find(ctx, idHex)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, quiz.ID)
}

// SubmitAttempt grades a linear answer sequence server-side and records
// the result. Non-privileged sessions may only attempt published
// quizzes that are currently available.
func (s *Service) SubmitAttempt(ctx context.Context, claims *auth.SessionClaims, idHex string, req AttemptRequest) (*QuizResult, error) {
	if claims == nil {
		return nil, apperr.ErrUnauthorized
	}
	quiz, err := s.find(ctx, idHex)
	if err != nil {
		return nil, err
	}

	if !auth.Allowed(claims.Roles, auth.ObjQuiz, auth.ActReadAnswers) {
		if quiz.Status != StatusPublished || !availableNow(quiz, time.Now()) {
			return nil, fmt.Errorf("%w: quiz is not open for attempts", apperr.ErrForbidden)
		}
	}

	questions, err := s.repo.FindQuestionsByIDs(ctx, quiz.Questions)
	if err != nil {
		return nil, err
	}

	total, totalTime, outcomes := ScoreAttempt(questions, req.Answers)

	studentID, err := primitive.ObjectIDFromHex(claims.FacultyID)
	if err != nil {
		return nil, apperr.ErrUnauthorized
	}
	result := &QuizResult{
		ID:              primitive.NewObjectID(),
		StudentID:       studentID,
		QuizID:          quiz.ID,
		TotalScore:      total,
		TotalTime:       totalTime,
		QuestionResults: outcomes,
		CreatedAt:       time.Now(),
	}
	if err := s.repo.InsertResult(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Results returns the joined results table.
func (s *Service) Results(ctx context.Context, claims *auth.SessionClaims) ([]*ResultRow, error) {
	if err := auth.Require(claims, auth.ObjResults, auth.ActList); err != nil {
		return nil, err
	}
	return s.repo.ListResults(ctx)
}

func (s *Service) find(ctx context.Context, idHex string) (*Quiz, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, apperr.NewValidation("invalid quiz id", "id")
	}
	quiz, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, fmt.Errorf("%w: quiz", apperr.ErrNotFound)
	}
	return quiz, nil
}

func (s *Service) populate(ctx context.Context, quiz *Quiz, privileged bool) (*QuizView, error) {
	view := &QuizView{Quiz: *quiz}
	var err error
	view.SubjectName, err = s.repo.SubjectName(ctx, quiz.SubjectID)
	if err != nil {
		return nil, err
	}
	view.CreatorName, view.CreatorEmail, err = s.repo.FacultyInfo(ctx, quiz.CreatedBy)
	if err != nil {
		return nil, err
	}
	questions, err := s.repo.FindQuestionsByIDs(ctx, quiz.Questions)
	if err != nil {
		return nil, err
	}
	view.QuestionDocs = make([]Question, 0, len(questions))
	for _, q := range questions {
		if privileged {
			view.QuestionDocs = append(view.QuestionDocs, *q)
		} else {
			view.QuestionDocs = append(view.QuestionDocs, q.StripAnswers())
		}
	}
	if !privileged {
		view.CreatorEmail = ""
	}
	return view, nil
}

// availableNow reports whether students may attempt the quiz right now.
func availableNow(q *Quiz, now time.Time) bool {
	switch q.AvailabilityStatus {
	case AvailabilityOn:
		return true
	case AvailabilityScheduled:
		if q.ScheduledStartTime == nil || now.Before(*q.ScheduledStartTime) {
			return false
		}
		if q.ScheduledEndTime != nil && now.After(*q.ScheduledEndTime) {
			return false
		}
		return true
	default:
		return false
	}
}

func validStatus(s string) bool {
	return s == StatusDraft || s == StatusPublished || s == StatusArchived
}

func validAvailability(s string) bool {
	return s == AvailabilityOff || s == AvailabilityOn || s == AvailabilityScheduled
}
