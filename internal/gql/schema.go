package gql

import (
	"context"
	"errors"

	"github.com/graphql-go/graphql"

	"FacultyQuizPortal/internal/auth"
	"FacultyQuizPortal/internal/faculty"
)

type contextKey string

// claimsKey carries the session claims into resolvers.
const claimsKey contextKey = "session-claims"

// WithClaims attaches session claims to a resolver context.
func WithClaims(ctx context.Context, claims *auth.SessionClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func claimsFrom(ctx context.Context) *auth.SessionClaims {
	claims, _ := ctx.Value(claimsKey).(*auth.SessionClaims)
	return claims
}

var assignmentType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Assignment",
	Fields: graphql.Fields{
		"course":     &graphql.Field{Type: graphql.String},
		"semester":   &graphql.Field{Type: graphql.Int},
		"section":    &graphql.Field{Type: graphql.String},
		"roomNumber": &graphql.Field{Type: graphql.String},
		"subjects":   &graphql.Field{Type: graphql.NewList(graphql.String)},
	},
})

var assignmentInputType = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "AssignmentInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"course":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		"semester":   &graphql.InputObjectFieldConfig{Type: graphql.Int},
		"section":    &graphql.InputObjectFieldConfig{Type: graphql.String},
		"roomNumber": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"subjects":   &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.String)},
	},
})

var updateResponseType = graphql.NewObject(graphql.ObjectConfig{
	Name: "UpdateResponse",
	Fields: graphql.Fields{
		"success": &graphql.Field{Type: graphql.Boolean},
		"message": &graphql.Field{Type: graphql.String},
	},
})

// NewSchema builds the assignments schema: the GraphQL face of the same
// fetch/save operations the REST handlers expose.
func NewSchema(svc *faculty.Service) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"getFacultyAssignments": &graphql.Field{
				Type: graphql.NewList(assignmentType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					claims := claimsFrom(p.Context)
					if claims == nil {
						return nil, errors.New("unauthorized access")
					}
					return svc.FetchAssignments(p.Context, claims)
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"getOrCreateFacultyAssignments": &graphql.Field{
				Type: graphql.NewList(assignmentType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					claims := claimsFrom(p.Context)
					if claims == nil {
						return nil, errors.New("unauthorized access")
					}
					// Fetch already treats a missing card as empty; the
					// card itself is guaranteed at login.
					return svc.FetchAssignments(p.Context, claims)
				},
			},
			"updateFacultyAssignments": &graphql.Field{
				Type: updateResponseType,
				Args: graphql.FieldConfigArgument{
					"classAssignments": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.NewList(assignmentInputType)),
					},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					claims := claimsFrom(p.Context)
					if claims == nil {
						return nil, errors.New("unauthorized access")
					}
					inputs, err := parseAssignmentInputs(p.Args["classAssignments"])
					if err != nil {
						return map[string]interface{}{"success": false, "message": err.Error()}, nil
					}
					if _, err := svc.SaveAssignments(p.Context, claims, inputs); err != nil {
						return map[string]interface{}{"success": false, "message": err.Error()}, nil
					}
					return map[string]interface{}{"success": true, "message": "Assignments updated successfully"}, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}

func parseAssignmentInputs(raw interface{}) ([]faculty.AssignmentInput, error) {
	list, ok := raw.([]interface{})
	if !ok {
		return nil, errors.New("invalid data structure for assignments")
	}
	inputs := make([]faculty.AssignmentInput, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, errors.New("invalid assignment entry")
		}
		in := faculty.AssignmentInput{
			Course:     stringArg(m["course"]),
			Section:    stringArg(m["section"]),
			RoomNumber: stringArg(m["roomNumber"]),
		}
		if sem, ok := m["semester"].(int); ok {
			in.Semester = sem
		}
		if subjects, ok := m["subjects"].([]interface{}); ok {
			for _, s := range subjects {
				in.Subjects = append(in.Subjects, stringArg(s))
			}
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func stringArg(v interface{}) string {
	s, _ := v.(string)
	return s
}
