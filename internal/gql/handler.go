package gql

import (
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"FacultyQuizPortal/internal/auth"
	"FacultyQuizPortal/internal/faculty"
)

type Handler struct {
	schema graphql.Schema
	logger *zap.Logger
}

func NewHandler(svc *faculty.Service, logger *zap.Logger) (*Handler, error) {
	schema, err := NewSchema(svc)
	if err != nil {
		return nil, err
	}
	return &Handler{schema: schema, logger: logger}, nil
}

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Query executes a GraphQL document against the assignments schema.
// Resolver failures surface in the standard "errors" array, not as
// transport-level status codes.
func (h *Handler) Query(c echo.Context) error {
	var req request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	claims := auth.ClaimsFromContext(c)
	ctx := WithClaims(c.Request().Context(), claims)

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		OperationName:  req.OperationName,
		VariableValues: req.Variables,
		Context:        ctx,
	})
	if len(result.Errors) > 0 {
		h.logger.Warn("graphql query failed", zap.Any("errors", result.Errors))
	}
	return c.JSON(http.StatusOK, result)
}
