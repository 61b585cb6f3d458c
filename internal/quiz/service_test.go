package quiz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"FacultyQuizPortal/internal/apperr"
	"FacultyQuizPortal/internal/auth"
	"FacultyQuizPortal/internal/subject"
)

type fakeRegistry struct {
	subjects map[string]*subject.Subject
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{subjects: make(map[string]*subject.Subject)}
}

func (f *fakeRegistry) FindOrCreate(ctx context.Context, name string) (*subject.Subject, error) {
	clean, lower := subject.Normalize(name)
	if clean == "" {
		return nil, apperr.NewValidation("subject name is required", "subject")
	}
	if s, ok := f.subjects[lower]; ok {
		return s, nil
	}
	s := &subject.Subject{ID: primitive.NewObjectID(), Name: clean, NameLower: lower}
	f.subjects[lower] = s
	return s, nil
}

func (f *fakeRegistry) FindByName(ctx context.Context, name string) (*subject.Subject, error) {
	_, lower := subject.Normalize(name)
	return f.subjects[lower], nil
}

type fakeStore struct {
	questions map[primitive.ObjectID]*Question
	quizzes   map[primitive.ObjectID]*Quiz
	results   []*QuizResult
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		questions: make(map[primitive.ObjectID]*Question),
		quizzes:   make(map[primitive.ObjectID]*Quiz),
	}
}

func (f *fakeStore) InsertQuestions(ctx context.Context, questions []*Question) error {
	for _, q := range questions {
		f.questions[q.ID] = q
	}
	return nil
}

func (f *fakeStore) FindQuestionsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*Question, error) {
	out := make([]*Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := f.questions[id]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertQuiz(ctx context.Context, quiz *Quiz) error {
	f.quizzes[quiz.ID] = quiz
	return nil
}

func (f *fakeStore) CountActive(ctx context.Context, subjectID primitive.ObjectID, batch string, semester int) (int64, error) {
	var n int64
	for _, q := range f.quizzes {
		if q.SubjectID == subjectID && q.Batch == batch && q.Semester == semester && q.Status != StatusArchived {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) FindByID(ctx context.Context, id primitive.ObjectID) (*Quiz, error) {
	return f.quizzes[id], nil
}

func (f *fakeStore) List(ctx context.Context, filter ListFilter) ([]*Quiz, error) {
	out := make([]*Quiz, 0, len(f.quizzes))
	for _, q := range f.quizzes {
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}
		if filter.Batch != "" && q.Batch != filter.Batch {
			continue
		}
		if filter.Semester != 0 && q.Semester != filter.Semester {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}

func (f *fakeStore) Update(ctx context.Context, id primitive.ObjectID, update QuizUpdate) error {
	q, ok := f.quizzes[id]
	if !ok {
		return apperr.ErrNotFound
	}
	if update.Title != nil {
		q.Title = *update.Title
	}
	if update.TimeLimit != nil {
		q.TimeLimit = *update.TimeLimit
	}
	if update.Status != nil {
		q.Status = *update.Status
	}
	if update.AvailabilityStatus != nil {
		q.AvailabilityStatus = *update.AvailabilityStatus
	}
	if update.Questions != nil {
		q.Questions = *update.Questions
	}
	if update.ScheduledStartTime != nil {
		q.ScheduledStartTime = update.ScheduledStartTime
	}
	if update.ScheduledEndTime != nil {
		q.ScheduledEndTime = update.ScheduledEndTime
	}
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	delete(f.quizzes, id)
	return nil
}

func (f *fakeStore) InsertResult(ctx context.Context, result *QuizResult) error {
	f.results = append(f.results, result)
	return nil
}

func (f *fakeStore) ListResults(ctx context.Context) ([]*ResultRow, error) {
	return nil, nil
}

func (f *fakeStore) SubjectName(ctx context.Context, id primitive.ObjectID) (string, error) {
	return "Operating Systems", nil
}

func (f *fakeStore) FacultyInfo(ctx context.Context, id primitive.ObjectID) (string, string, error) {
	return "Dr. Rao", "rao@university.edu", nil
}

func controllerClaims() *auth.SessionClaims {
	return &auth.SessionClaims{
		FacultyID: primitive.NewObjectID().Hex(),
		Roles:     []string{"quiz_controller"},
	}
}

func mentorClaims() *auth.SessionClaims {
	return &auth.SessionClaims{
		FacultyID: primitive.NewObjectID().Hex(),
		Roles:     []string{"project_mentor"},
	}
}

func newTestService() (*Service, *fakeStore, *fakeRegistry) {
	store := newFakeStore()
	registry := newFakeRegistry()
	return NewService(store, registry, zap.NewNop()), store, registry
}

func validCreateRequest() CreateQuizRequest {
	return CreateQuizRequest{
		Title:       "Process Scheduling",
		SubjectName: "Operating Systems",
		Batch:       "CSE2023",
		Semester:    4,
		TimeLimit:   15,
		Questions: []QuestionInput{
			{Type: "mcq", Text: "Which scheduler is preemptive?", CorrectAnswer: "Round Robin", Points: 2, TimeAllowed: 30},
			{Type: "truefalse", Text: "FCFS can starve short jobs behind long ones.", CorrectAnswer: "false"},
		},
	}
}

func TestCreateQuiz(t *testing.T) {
	svc, store, _ := newTestService()

	view, err := svc.Create(context.Background(), controllerClaims(), validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, StatusDraft, view.Status)
	assert.Equal(t, AvailabilityOff, view.AvailabilityStatus)
	// 2 + default 1 for the pointless truefalse question.
	assert.Equal(t, 3, view.TotalPoints)
	assert.Equal(t, "Operating Systems", view.SubjectName)
	assert.Len(t, store.questions, 2)
	assert.Len(t, store.quizzes, 1)
}

func TestCreateQuizMissingFields(t *testing.T) {
	svc, store, _ := newTestService()

	req := validCreateRequest()
	req.Title = ""
	req.Batch = "  "

	_, err := svc.Create(context.Background(), controllerClaims(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "title")
	assert.Contains(t, verr.Fields, "batch")
	assert.Empty(t, store.quizzes)
}

func TestCreateQuizQuestionLimits(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	req := validCreateRequest()
	req.Questions = nil
	_, err := svc.Create(ctx, controllerClaims(), req)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	req = validCreateRequest()
	req.Questions = make([]QuestionInput, MaxQuestionsPerQuiz+1)
	for i := range req.Questions {
		req.Questions[i] = QuestionInput{Type: "mcq", Text: "q", CorrectAnswer: "a"}
	}
	_, err = svc.Create(ctx, controllerClaims(), req)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateQuizCapPerSubject(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()
	claims := controllerClaims()

	for i := 0; i < MaxQuizzesPerSubject; i++ {
		_, err := svc.Create(ctx, claims, validCreateRequest())
		require.NoError(t, err)
	}

	_, err := svc.Create(ctx, claims, validCreateRequest())
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Len(t, store.quizzes, MaxQuizzesPerSubject)

	// Archiving one frees a slot.
	for _, q := range store.quizzes {
		q.Status = StatusArchived
		break
	}
	_, err = svc.Create(ctx, claims, validCreateRequest())
	assert.NoError(t, err)

	// A different batch has its own budget.
	req := validCreateRequest()
	req.Batch = "CSE2024"
	_, err = svc.Create(ctx, claims, req)
	assert.NoError(t, err)
}

func TestCreateQuizForbiddenRole(t *testing.T) {
	svc, _, _ := newTestService()

	claims := &auth.SessionClaims{
		FacultyID: primitive.NewObjectID().Hex(),
		Roles:     []string{"event_manager"},
	}
	_, err := svc.Create(context.Background(), claims, validCreateRequest())
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	_, err = svc.Create(context.Background(), nil, validCreateRequest())
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestGetStripsAnswersForUnprivileged(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	view, err := svc.Create(ctx, controllerClaims(), validCreateRequest())
	require.NoError(t, err)

	// Mentors can author but not read answers.
	got, err := svc.Get(ctx, mentorClaims(), view.ID.Hex())
	require.NoError(t, err)
	require.Len(t, got.QuestionDocs, 2)
	for _, q := range got.QuestionDocs {
		assert.Empty(t, q.CorrectAnswer)
	}
	assert.Empty(t, got.CreatorEmail)

	// Controllers see everything.
	got, err = svc.Get(ctx, controllerClaims(), view.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Round Robin", got.QuestionDocs[0].CorrectAnswer)
	assert.Equal(t, "rao@university.edu", got.CreatorEmail)
}

func TestListForcesPublishedForUnprivileged(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	draft, err := svc.Create(ctx, controllerClaims(), validCreateRequest())
	require.NoError(t, err)
	store.quizzes[draft.ID].Status = StatusDraft

	published := validCreateRequest()
	published.Status = StatusPublished
	_, err = svc.Create(ctx, controllerClaims(), published)
	require.NoError(t, err)

	// Mentors asking for drafts still only get published quizzes.
	items, err := svc.List(ctx, mentorClaims(), ListFilter{Status: StatusDraft})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, StatusPublished, items[0].Status)

	items, err = svc.List(ctx, controllerClaims(), ListFilter{Status: StatusDraft})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestUpdateValidatesEnums(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	view, err := svc.Create(ctx, controllerClaims(), validCreateRequest())
	require.NoError(t, err)

	bad := "retired"
	_, err = svc.Update(ctx, controllerClaims(), view.ID.Hex(), UpdateQuizRequest{Status: &bad})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	on := AvailabilityOn
	got, err := svc.Update(ctx, controllerClaims(), view.ID.Hex(), UpdateQuizRequest{AvailabilityStatus: &on})
	require.NoError(t, err)
	assert.Equal(t, AvailabilityOn, got.AvailabilityStatus)
}

func TestDeleteRequiresAdmin(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	view, err := svc.Create(ctx, controllerClaims(), validCreateRequest())
	require.NoError(t, err)

	err = svc.Delete(ctx, controllerClaims(), view.ID.Hex())
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	admin := &auth.SessionClaims{FacultyID: primitive.NewObjectID().Hex(), Roles: []string{"admin"}}
	err = svc.Delete(ctx, admin, view.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, store.quizzes)
}

func TestSubmitAttemptScoresAndRecords(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	req := validCreateRequest()
	req.Status = StatusPublished
	req.AvailabilityStatus = AvailabilityOn
	view, err := svc.Create(ctx, controllerClaims(), req)
	require.NoError(t, err)

	taker := mentorClaims()
	result, err := svc.SubmitAttempt(ctx, taker, view.ID.Hex(), AttemptRequest{
		Answers: []AnswerInput{
			{Answer: "round robin", TimeTaken: 30},
			{Answer: "false", TimeTaken: 10},
		},
	})
	require.NoError(t, err)

	// Q1: 2 base, no bonus. Q2: 1 base plus 6 saved-time ticks of 0.5.
	assert.Equal(t, 2.0+4.0, result.TotalScore)
	assert.Equal(t, 40, result.TotalTime)
	assert.Len(t, result.QuestionResults, 2)
	assert.Equal(t, taker.FacultyID, result.StudentID.Hex())
	require.Len(t, store.results, 1)
}

func TestSubmitAttemptRequiresOpenQuiz(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	view, err := svc.Create(ctx, controllerClaims(), validCreateRequest())
	require.NoError(t, err)

	// Draft and off: closed to non-privileged takers.
	_, err = svc.SubmitAttempt(ctx, mentorClaims(), view.ID.Hex(), AttemptRequest{})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	// Published but availability off is still closed.
	store.quizzes[view.ID].Status = StatusPublished
	_, err = svc.SubmitAttempt(ctx, mentorClaims(), view.ID.Hex(), AttemptRequest{})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	// Privileged sessions may dry-run regardless.
	_, err = svc.SubmitAttempt(ctx, controllerClaims(), view.ID.Hex(), AttemptRequest{})
	assert.NoError(t, err)
}

func TestAvailableNowScheduledWindow(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	q := &Quiz{AvailabilityStatus: AvailabilityScheduled, ScheduledStartTime: &past, ScheduledEndTime: &future}
	assert.True(t, availableNow(q, now))

	q = &Quiz{AvailabilityStatus: AvailabilityScheduled, ScheduledStartTime: &future}
	assert.False(t, availableNow(q, now))

	q = &Quiz{AvailabilityStatus: AvailabilityScheduled, ScheduledStartTime: &past, ScheduledEndTime: &past}
	assert.False(t, availableNow(q, now))

	// Open-ended window: start only.
	q = &Quiz{AvailabilityStatus: AvailabilityScheduled, ScheduledStartTime: &past}
	assert.True(t, availableNow(q, now))

	assert.True(t, availableNow(&Quiz{AvailabilityStatus: AvailabilityOn}, now))
	assert.False(t, availableNow(&Quiz{AvailabilityStatus: AvailabilityOff}, now))
}
