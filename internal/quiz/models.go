package quiz

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Quiz lifecycle status. Archived quizzes do not count against the
// per-subject cap.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Availability controls whether students may currently attempt a quiz,
// independent of lifecycle status.
const (
	AvailabilityOff       = "off"
	AvailabilityOn        = "on"
	AvailabilityScheduled = "scheduled"
)

// Limits enforced at creation.
const (
	MaxQuestionsPerQuiz   = 10
	MaxQuizzesPerSubject  = 5
	DefaultQuestionPoints = 1
)

// TestCase belongs to findoutput questions. Outputs are stripped for
// non-privileged readers.
type TestCase struct {
	Input  string `bson:"input" json:"input"`
	Output string `bson:"output,omitempty" json:"output,omitempty"`
}

// Question types: mcq, fillup, truefalse, findoutput, subjective.
type Question struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SubjectID     primitive.ObjectID `bson:"subject_id" json:"subject_id"`
	Type          string             `bson:"type" json:"type"`
	Text          string             `bson:"text" json:"text"`
	Options       []string           `bson:"options,omitempty" json:"options,omitempty"`
	CorrectAnswer string             `bson:"correct_answer" json:"correctAnswer,omitempty"`
	Points        int                `bson:"points" json:"points"`
	Difficulty    string             `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	TimeAllowed   int                `bson:"time_allowed" json:"timeAllowed"`
	TestCases     []TestCase         `bson:"test_cases,omitempty" json:"testCases,omitempty"`
	CreatedBy     primitive.ObjectID `bson:"created_by" json:"created_by"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

// StripAnswers returns a copy safe to show a quiz taker: the correct
// answer removed and test cases reduced to their inputs.
func (q Question) StripAnswers() Question {
	q.CorrectAnswer = ""
	if len(q.TestCases) > 0 {
		stripped := make([]TestCase, len(q.TestCases))
		for i, tc := range q.TestCases {
			stripped[i] = TestCase{Input: tc.Input}
		}
		q.TestCases = stripped
	}
	return q
}

type Quiz struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title              string               `bson:"title" json:"title"`
	Description        string               `bson:"description,omitempty" json:"description,omitempty"`
	SubjectID          primitive.ObjectID   `bson:"subject_id" json:"subject_id"`
	Batch              string               `bson:"batch" json:"batch"`
	Semester           int                  `bson:"semester" json:"semester"`
	Section            string               `bson:"section,omitempty" json:"section,omitempty"`
	TimeLimit          int                  `bson:"time_limit" json:"timeLimit"`
	Questions          []primitive.ObjectID `bson:"questions" json:"questions"`
	TotalPoints        int                  `bson:"total_points" json:"totalPoints"`
	CreatedBy          primitive.ObjectID   `bson:"created_by" json:"created_by"`
	Status             string               `bson:"status" json:"status"`
	AvailabilityStatus string               `bson:"availability_status" json:"availabilityStatus"`
	ScheduledStartTime *time.Time           `bson:"scheduled_start_time,omitempty" json:"scheduledStartTime,omitempty"`
	ScheduledEndTime   *time.Time           `bson:"scheduled_end_time,omitempty" json:"scheduledEndTime,omitempty"`
	WindowNotified     bool                 `bson:"window_notified" json:"-"`
	CreatedAt          time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time            `bson:"updated_at" json:"updated_at"`
}

// QuestionResult is one per-question outcome inside a QuizResult.
type QuestionResult struct {
	QuestionID     primitive.ObjectID `bson:"question_id" json:"question_id"`
	SelectedAnswer string             `bson:"selected_answer" json:"selected_answer"`
	IsCorrect      bool               `bson:"is_correct" json:"is_correct"`
	TimeTaken      int                `bson:"time_taken" json:"time_taken"`
	Points         float64            `bson:"points" json:"points"`
}

// QuizResult records one attempt.
type QuizResult struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID       primitive.ObjectID `bson:"student_id" json:"student_id"`
	QuizID          primitive.ObjectID `bson:"quiz_id" json:"quiz_id"`
	TotalScore      float64            `bson:"total_score" json:"total_score"`
	TotalTime       int                `bson:"total_time" json:"total_time"`
	QuestionResults []QuestionResult   `bson:"question_results" json:"question_results"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
}

// ResultRow is the quiz-results table view, joined with taker and title.
type ResultRow struct {
	ID        string    `json:"id"`
	UserName  string    `json:"userName"`
	UserEmail string    `json:"userEmail"`
	QuizTitle string    `json:"quizTitle"`
	Score     float64   `json:"score"`
	TotalTime int       `json:"totalTime"`
	EndedAt   time.Time `json:"endedAt"`
}

// QuestionInput is one authored question in a create request.
type QuestionInput struct {
	Type          string     `json:"type"`
	Text          string     `json:"text"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correctAnswer"`
	Points        int        `json:"points"`
	Difficulty    string     `json:"difficulty"`
	TimeAllowed   int        `json:"timeAllowed"`
	TestCases     []TestCase `json:"testCases"`
}

type CreateQuizRequest struct {
	Title              string          `json:"title"`
	Description        string          `json:"description"`
	SubjectName        string          `json:"subjectName"`
	Batch              string          `json:"batch"`
	Semester           int             `json:"semester"`
	Section            string          `json:"section"`
	TimeLimit          int             `json:"timeLimit"`
	Status             string          `json:"status"`
	AvailabilityStatus string          `json:"availabilityStatus"`
	Questions          []QuestionInput `json:"questions"`
}

// UpdateQuizRequest carries the mutable subset; nil means untouched.
type UpdateQuizRequest struct {
	Title              *string    `json:"title"`
	Description        *string    `json:"description"`
	TimeLimit          *int       `json:"timeLimit"`
	Questions          *[]string  `json:"questions"`
	Status             *string    `json:"status"`
	AvailabilityStatus *string    `json:"availabilityStatus"`
	ScheduledStartTime *time.Time `json:"scheduledStartTime"`
	ScheduledEndTime   *time.Time `json:"scheduledEndTime"`
}

// QuizUpdate is the repository-level whitelist update.
type QuizUpdate struct {
	Title              *string
	Description        *string
	TimeLimit          *int
	Questions          *[]primitive.ObjectID
	Status             *string
	AvailabilityStatus *string
	ScheduledStartTime *time.Time
	ScheduledEndTime   *time.Time
}

// ListFilter narrows the quiz listing.
type ListFilter struct {
	Batch     string
	Semester  int
	SubjectID string
	Status    string
}

// QuizView is a quiz populated for a single-quiz response.
type QuizView struct {
	Quiz
	SubjectName  string     `json:"subjectName"`
	CreatorName  string     `json:"creatorName"`
	CreatorEmail string     `json:"creatorEmail,omitempty"`
	QuestionDocs []Question `json:"questionDocs"`
}

// QuizListItem is one row of the quiz listing.
type QuizListItem struct {
	Quiz
	SubjectName string `json:"subjectName"`
	CreatorName string `json:"creatorName"`
}

// AnswerInput is one submitted answer in an attempt.
type AnswerInput struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
	TimeTaken  int    `json:"timeTaken"`
}

type AttemptRequest struct {
	Answers []AnswerInput `json:"answers"`
}
