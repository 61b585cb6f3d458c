package quiz

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"FacultyQuizPortal/internal/apperr"
	"FacultyQuizPortal/internal/auth"
)

// QuizHandler handles HTTP requests for quiz authoring, attempts and
// results.
type QuizHandler struct {
	service *Service
}

func NewQuizHandler(service *Service) *QuizHandler {
	return &QuizHandler{service: service}
}

func (h *QuizHandler) Create(c echo.Context) error {
	claims := auth.ClaimsFromContext(c)
	var req CreateQuizRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	view, err := h.service.Create(c.Request().Context(), claims, req)
	if err != nil {
		return c.JSON(apperr.Status(err), apperr.Payload(err))
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"success": true, "quiz": view})
}

func (h *QuizHandler) List(c echo.Context) error {
	claims := auth.ClaimsFromContext(c)

	filter := ListFilter{
		Batch:     c.QueryParam("batch"),
		SubjectID: c.QueryParam("subjectId"),
		Status:    c.QueryParam("status"),
	}
	if sem := c.QueryParam("semester"); sem != "" {
		n, err := strconv.Atoi(sem)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid semester"})
		}
		filter.Semester = n
	}

	items, err := h.service.List(c.Request().Context(), claims, filter)
	if err != nil {
		return c.JSON(apperr.Status(err), apperr.Payload(err))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"quizzes": items})
}

func (h *QuizHandler) Get(c echo.Context) error {
	claims := auth.ClaimsFromContext(c)
	view, err := h.service.Get(c.Request().Context(), claims, c.Param("id"))
	if err != nil {
		return c.JSON(apperr.Status(err), apperr.Payload(err))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"quiz": view})
}

func (h *QuizHandler) Update(c echo.Context) error {
	claims := auth.ClaimsFromContext(c)
	var req UpdateQuizRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	view, err := h.service.Update(c.Request().Context(), claims, c.Param("id"), req)
	if err != nil {
		return c.JSON(apperr.Status(err), apperr.Payload(err))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "quiz": view})
}

func (h *QuizHandler) Delete(c echo.Context) error {
	claims := auth.ClaimsFromContext(c)
	if err := h.service.Delete(c.Request().Context(), claims, c.Param("id")); err != nil {
		return c.JSON(apperr.Status(err), apperr.Payload(err))
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"success": true, "message": "Quiz deleted"})
}

func (h *QuizHandler) SubmitAttempt(c echo.Context) error {
	claims := auth.ClaimsFromContext(c)
	var req AttemptRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	result, err := h.service.SubmitAttempt(c.Request().Context(), claims, c.Param("id"), req)
	if err != nil {
		return c.JSON(apperr.Status(err), apperr.Payload(err))
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{"result": result})
}

func (h *QuizHandler) Results(c echo.Context) error {
	claims := auth.ClaimsFromContext(c)
	rows, err := h.service.Results(c.Request().Context(), claims)
	if err != nil {
		return c.JSON(apperr.Status(err), apperr.Payload(err))
	}
	return c.JSON(http.StatusOK, rows)
}
