package faculty

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"FacultyQuizPortal/internal/apperr"
	"FacultyQuizPortal/internal/auth"
)

// AssignmentHandler handles HTTP requests for batch assignments.
type AssignmentHandler struct {
	service *Service
}

func NewAssignmentHandler(service *Service) *AssignmentHandler {
	return &AssignmentHandler{service: service}
}

type saveAssignmentsRequest struct {
	Assignments []AssignmentInput `json:"assignments"`
}

func (h *AssignmentHandler) SaveAssignments(c echo.Context) error {
	claims := auth.ClaimsFromContext(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	var req saveAssignmentsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	card, err := h.service.SaveAssignments(c.Request().Context(), claims, req.Assignments)
	if err != nil {
		return c.JSON(apperr.Status(err), apperr.Payload(err))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":     "Assignments saved successfully",
		"facultyCard": card,
	})
}

func (h *AssignmentHandler) FetchAssignments(c echo.Context) error {
	claims := auth.ClaimsFromContext(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	views, err := h.service.FetchAssignments(c.Request().Context(), claims)
	if err != nil {
		return c.JSON(apperr.Status(err), apperr.Payload(err))
	}
	return c.JSON(http.StatusOK, views)
}
