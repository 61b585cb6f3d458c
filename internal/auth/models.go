package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Faculty is the identity record backing login and registration.
// Email and AmizoneID each carry a unique index.
type Faculty struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Position     string             `bson:"position" json:"position"`
	Roles        []string           `bson:"roles" json:"roles"`
	Email        string             `bson:"email" json:"email"`
	AmizoneID    string             `bson:"amizone_id" json:"amizone_id"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Department   string             `bson:"department" json:"department"`
	IsActive     bool               `bson:"is_active" json:"is_active"`
	IsVerified   bool               `bson:"is_verified" json:"is_verified"`
	LastLogin    time.Time          `bson:"last_login,omitempty" json:"last_login"`
	LoginCount   int                `bson:"login_count" json:"login_count"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// Academic positions a faculty member may hold.
var Positions = []string{
	"Dean",
	"Associate Dean",
	"Head of Department (HOD)",
	"Head of Section (HOS)",
	"Professor",
	"Associate Professor",
	"Assistant Professor",
	"Lab Assistant",
	"Research Scholar",
	"Administrative Staff",
}

// System role tags carried in the session and evaluated by the policy.
var Roles = []string{
	"faculty",
	"admin",
	"project_mentor",
	"quiz_controller",
	"admin_project_coordinator",
	"faculty_coordinator",
	"event_manager",
	"research_faculty",
}

func validPosition(p string) bool {
	for _, v := range Positions {
		if v == p {
			return true
		}
	}
	return false
}

func invalidRoles(roles []string) []string {
	var bad []string
	for _, r := range roles {
		known := false
		for _, v := range Roles {
			if v == r {
				known = true
				break
			}
		}
		if !known {
			bad = append(bad, r)
		}
	}
	return bad
}

type RegisterRequest struct {
	Name      string   `json:"name" validate:"required,min=2,max=80"`
	Position  string   `json:"position" validate:"required"`
	Roles     []string `json:"roles" validate:"required,min=1"`
	Email     string   `json:"email" validate:"required,email"`
	AmizoneID string   `json:"amizone_id" validate:"required"`
	Password  string   `json:"password" validate:"required,min=8"`
}

type Credential struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
}
