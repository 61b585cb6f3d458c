package review

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"FacultyQuizPortal/internal/apperr"
	"FacultyQuizPortal/internal/auth"
)

// ReviewHandler handles HTTP requests for the project and research
// review panels.
type ReviewHandler struct {
	service *Service
}

func NewReviewHandler(service *Service) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) ListProjects(c echo.Context) error {
	claims := auth.ClaimsFromContext(c)
	projects, err := h.service.Projects(c.Request().Context(), claims)
	if err != nil {
		return c.JSON(apperr.Status(err), apperr.Payload(err))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "projects": projects})
}

func (h *ReviewHandler) GetProject(c echo.Context) error {
	claims := auth.ClaimsFromContext(c)
	project, err := h.service.Project(c.Request().Context(), claims, c.Param("id"))
	if err != nil {
		return c.JSON(apperr.Status(err), apperr.Payload(err))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"project": project})
}

func (h *ReviewHandler) ReviewProject(c echo.Context) error {
	claims := auth.ClaimsFromContext(c)
	var req StatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := h.service.ReviewProject(c.Request().Context(), claims, c.Param("id"), req); err != nil {
		return c.JSON(apperr.Status(err), apperr.Payload(err))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

func (h *ReviewHandler) ListResearchRequests(c echo.Context) error {
	claims := auth.ClaimsFromContext(c)
	requests, err := h.service.ResearchRequests(c.Request().Context(), claims)
	if err != nil {
		return c.JSON(apperr.Status(err), apperr.Payload(err))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "requests": requests})
}

func (h *ReviewHandler) ReviewResearchRequest(c echo.Context) error {
	claims := auth.ClaimsFromContext(c)
	var req StatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := h.service.ReviewResearchRequest(c.Request().Context(), claims, c.Param("id"), req); err != nil {
		return c.JSON(apperr.Status(err), apperr.Payload(err))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}
