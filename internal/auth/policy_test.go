package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"FacultyQuizPortal/internal/apperr"
)

func TestAllowedGrantMatrix(t *testing.T) {
	cases := []struct {
		role   string
		object string
		action string
		want   bool
	}{
		{"faculty", ObjQuiz, ActCreate, true},
		{"quiz_controller", ObjQuiz, ActCreate, true},
		{"project_mentor", ObjQuiz, ActCreate, true},
		{"event_manager", ObjQuiz, ActCreate, false},

		{"faculty", ObjQuiz, ActReadAnswers, true},
		{"project_mentor", ObjQuiz, ActReadAnswers, false},

		{"admin", ObjQuiz, ActDelete, true},
		{"quiz_controller", ObjQuiz, ActDelete, false},
		{"faculty", ObjQuiz, ActDelete, false},

		{"quiz_controller", ObjResults, ActList, true},
		{"event_manager", ObjResults, ActList, false},

		{"admin_project_coordinator", ObjProject, ActReview, true},
		{"admin", ObjProject, ActReview, true},
		{"research_faculty", ObjProject, ActReview, false},

		{"research_faculty", ObjResearch, ActReview, true},
		{"admin_project_coordinator", ObjResearch, ActReview, false},

		{"unknown_role", ObjQuiz, ActCreate, false},
	}

	for _, tc := range cases {
		got := Allowed([]string{tc.role}, tc.object, tc.action)
		assert.Equal(t, tc.want, got, "%s %s:%s", tc.role, tc.object, tc.action)
	}
}

func TestAllowedAnyRoleSuffices(t *testing.T) {
	roles := []string{"event_manager", "admin"}
	assert.True(t, Allowed(roles, ObjQuiz, ActDelete))
	assert.False(t, Allowed(nil, ObjQuiz, ActCreate))
}

func TestRequire(t *testing.T) {
	err := Require(nil, ObjQuiz, ActCreate)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	claims := &SessionClaims{Roles: []string{"event_manager"}}
	err = Require(claims, ObjQuiz, ActCreate)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	claims.Roles = []string{"faculty"}
	assert.NoError(t, Require(claims, ObjQuiz, ActCreate))
}
