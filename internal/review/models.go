package review

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review states shared by projects and research requests.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Project is a student project submission awaiting coordinator review.
type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Abstract    string             `bson:"abstract" json:"abstract"`
	SubmittedBy string             `bson:"submitted_by" json:"submittedBy"`
	Members     []string           `bson:"members" json:"members"`
	Status      string             `bson:"status" json:"status"`
	ReviewedBy  string             `bson:"reviewed_by,omitempty" json:"reviewedBy,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// ResearchRequest is a faculty research-collaboration request.
type ResearchRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Summary     string             `bson:"summary" json:"summary"`
	RequestedBy string             `bson:"requested_by" json:"requestedBy"`
	Mentor      string             `bson:"mentor,omitempty" json:"mentor,omitempty"`
	Status      string             `bson:"status" json:"status"`
	ReviewedBy  string             `bson:"reviewed_by,omitempty" json:"reviewedBy,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

type StatusUpdateRequest struct {
	Status string `json:"status"`
}

func validReviewStatus(s string) bool {
	return s == StatusPending || s == StatusAccepted || s == StatusRejected
}
