package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"FacultyQuizPortal/internal/apperr"
)

func respondError(c echo.Context, err error) error {
	return c.JSON(apperr.Status(err), apperr.Payload(err))
}

type AuthHandler struct {
	service *Service
}

func NewAuthHandler(service *Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// ClaimsFromContext pulls the session claims set by the JWT middleware.
func ClaimsFromContext(c echo.Context) *SessionClaims {
	claims, _ := c.Get("user").(*SessionClaims)
	return claims
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	f, err := h.service.Register(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Faculty registered successfully",
		"faculty": map[string]interface{}{
			"id":       f.ID.Hex(),
			"name":     f.Name,
			"email":    f.Email,
			"position": f.Position,
			"roles":    f.Roles,
		},
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var cred Credential
	if err := c.Bind(&cred); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	token, err := h.service.Authenticate(c.Request().Context(), cred)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

func (h *AuthHandler) Profile(c echo.Context) error {
	claims := ClaimsFromContext(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	f, err := h.service.Profile(c.Request().Context(), claims.FacultyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"faculty": f,
		"card_id": claims.CardID,
	})
}

func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	claims := ClaimsFromContext(c)
	if claims == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or missing token"})
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	f, err := h.service.UpdateProfile(c.Request().Context(), claims.FacultyID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"faculty": f})
}
