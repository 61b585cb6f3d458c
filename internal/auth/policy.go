package auth

import (
	"fmt"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"FacultyQuizPortal/internal/apperr"
)

// Capability objects and actions evaluated by the policy. Every
// role-gated handler goes through Allowed with one of these pairs, so
// there is a single place where role drift can happen.
const (
	ObjQuiz     = "quiz"
	ObjResults  = "results"
	ObjProject  = "project"
	ObjResearch = "research"

	ActCreate      = "create"
	ActUpdate      = "update"
	ActDelete      = "delete"
	ActReadAnswers = "read_answers"
	ActList        = "list"
	ActReview      = "review"
)

var (
	enforcer     *casbin.Enforcer
	enforcerOnce sync.Once
	enforcerErr  error
)

const policyModel = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act`

// Role/capability grants. The grant lists mirror the checks the portal
// has always made: project_mentor may author quizzes but does not see
// answers or manage other faculty's quiz lifecycle.
var policyRules = [][]string{
	{"faculty", ObjQuiz, ActCreate},
	{"admin", ObjQuiz, ActCreate},
	{"quiz_controller", ObjQuiz, ActCreate},
	{"project_mentor", ObjQuiz, ActCreate},

	{"faculty", ObjQuiz, ActUpdate},
	{"admin", ObjQuiz, ActUpdate},
	{"quiz_controller", ObjQuiz, ActUpdate},

	{"admin", ObjQuiz, ActDelete},

	{"faculty", ObjQuiz, ActReadAnswers},
	{"admin", ObjQuiz, ActReadAnswers},
	{"quiz_controller", ObjQuiz, ActReadAnswers},

	{"faculty", ObjResults, ActList},
	{"admin", ObjResults, ActList},
	{"quiz_controller", ObjResults, ActList},

	{"admin_project_coordinator", ObjProject, ActReview},
	{"admin", ObjProject, ActReview},

	{"research_faculty", ObjResearch, ActReview},
	{"admin", ObjResearch, ActReview},
}

func initEnforcer() (*casbin.Enforcer, error) {
	enforcerOnce.Do(func() {
		m, err := model.NewModelFromString(policyModel)
		if err != nil {
			enforcerErr = err
			return
		}
		enforcer, enforcerErr = casbin.NewEnforcer(m)
		if enforcerErr != nil {
			return
		}
		for _, rule := range policyRules {
			if _, err := enforcer.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
				enforcerErr = err
				return
			}
		}
	})
	return enforcer, enforcerErr
}

// Allowed reports whether any of the session's roles grants the
// capability (object, action).
func Allowed(roles []string, object, action string) bool {
	enf, err := initEnforcer()
	if err != nil {
		return false
	}
	for _, role := range roles {
		ok, err := enf.Enforce(role, object, action)
		if err == nil && ok {
			return true
		}
	}
	return false
}

// Require returns a forbidden error when the session lacks the
// capability, for services that gate at the business layer.
func Require(claims *SessionClaims, object, action string) error {
	if claims == nil {
		return apperr.ErrUnauthorized
	}
	if !Allowed(claims.Roles, object, action) {
		return fmt.Errorf("%w: missing %s:%s capability", apperr.ErrForbidden, object, action)
	}
	return nil
}
