package faculty

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuizRef is a lightweight pointer to a quiz from a subject entry.
type QuizRef struct {
	ID    string     `bson:"id" json:"id"`
	Title string     `bson:"title" json:"title"`
	Date  *time.Time `bson:"date,omitempty" json:"date,omitempty"`
}

// SubjectRef links an assignment row to a canonical subject, keeping the
// name denormalized for display.
type SubjectRef struct {
	SubjectID primitive.ObjectID `bson:"subject_id" json:"subject_id"`
	Name      string             `bson:"name" json:"name"`
	Quizzes   []QuizRef          `bson:"quizzes" json:"quizzes"`
}

// ClassAssignment is one batch/semester/section row of a faculty's
// teaching load. Owned entirely by the card; not independently addressable.
type ClassAssignment struct {
	Batch      string       `bson:"batch" json:"batch"`
	Semester   int          `bson:"semester" json:"semester"`
	Section    string       `bson:"section" json:"section"`
	RoomNumber string       `bson:"room_number" json:"room_number"`
	Subjects   []SubjectRef `bson:"subjects" json:"subjects"`
}

// FacultyCard is the denormalized teaching profile, one per faculty.
// CardKey is the stable lookup key: the faculty's amizone id. Cards
// created before that convention carry an auto-generated key, which the
// save path migrates away (at most one stale card can exist).
type FacultyCard struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CardKey          string             `bson:"card_key" json:"card_key"`
	FacultyID        primitive.ObjectID `bson:"faculty_id" json:"faculty_id"`
	Name             string             `bson:"name" json:"name"`
	Department       string             `bson:"department" json:"department"`
	Position         string             `bson:"position" json:"position"`
	ImageURL         string             `bson:"image_url" json:"image_url"`
	ClassAssignments []ClassAssignment  `bson:"class_assignments" json:"class_assignments"`
	IsActive         bool               `bson:"is_active" json:"is_active"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}

// AssignmentInput is one row of the save-assignments request. Subjects
// arrive as plain names and are resolved through the subject registry.
type AssignmentInput struct {
	Course     string   `json:"course"`
	Semester   int      `json:"semester"`
	Section    string   `json:"section"`
	RoomNumber string   `json:"roomNumber"`
	Subjects   []string `json:"subjects"`
}

// AssignmentView is the fetch-assignments response row, mirroring the
// input shape so save-then-fetch round-trips.
type AssignmentView struct {
	Course     string   `json:"course"`
	Semester   int      `json:"semester"`
	Section    string   `json:"section"`
	RoomNumber string   `json:"roomNumber"`
	Subjects   []string `json:"subjects"`
}
