package review

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"FacultyQuizPortal/internal/apperr"
	"FacultyQuizPortal/internal/auth"
)

// Store is the repository behavior the service depends on.
type Store interface {
	ListProjects(ctx context.Context) ([]*Project, error)
	FindProjectByID(ctx context.Context, id primitive.ObjectID) (*Project, error)
	UpdateProjectStatus(ctx context.Context, id primitive.ObjectID, status, reviewedBy string) error
	ListResearchRequests(ctx context.Context) ([]*ResearchRequest, error)
	UpdateResearchStatus(ctx context.Context, id primitive.ObjectID, status, reviewedBy string) error
}

type Service struct {
	repo   Store
	logger *zap.Logger
}

func NewService(repo Store, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Projects lists submissions for the review panel, newest first. Any
// authenticated session may read the list.
func (s *Service) Projects(ctx context.Context, claims *auth.SessionClaims) ([]*Project, error) {
	if claims == nil {
		return nil, apperr.ErrUnauthorized
	}
	return s.repo.ListProjects(ctx)
}

func (s *Service) Project(ctx context.Context, claims *auth.SessionClaims, idHex string) (*Project, error) {
	if claims == nil {
		return nil, apperr.ErrUnauthorized
	}
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return nil, apperr.NewValidation("invalid project id", "id")
	}
	p, err := s.repo.FindProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: project", apperr.ErrNotFound)
	}
	return p, nil
}

// ReviewProject sets a project's review outcome.
func (s *Service) ReviewProject(ctx context.Context, claims *auth.SessionClaims, idHex string, req StatusUpdateRequest) error {
	if err := auth.Require(claims, auth.ObjProject, auth.ActReview); err != nil {
		return err
	}
	if !validReviewStatus(req.Status) {
		return apperr.NewValidation(fmt.Sprintf("invalid status: %s", req.Status), "status")
	}
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return apperr.NewValidation("invalid project id", "id")
	}
	if err := s.repo.UpdateProjectStatus(ctx, id, req.Status, claims.Email); err != nil {
		return err
	}
	s.logger.Info("project reviewed",
		zap.String("project", idHex), zap.String("status", req.Status))
	return nil
}

// ResearchRequests lists pending research-collaboration requests.
func (s *Service) ResearchRequests(ctx context.Context, claims *auth.SessionClaims) ([]*ResearchRequest, error) {
	if claims == nil {
		return nil, apperr.ErrUnauthorized
	}
	return s.repo.ListResearchRequests(ctx)
}

// ReviewResearchRequest sets a research request's review outcome.
func (s *Service) ReviewResearchRequest(ctx context.Context, claims *auth.SessionClaims, idHex string, req StatusUpdateRequest) error {
	if err := auth.Require(claims, auth.ObjResearch, auth.ActReview); err != nil {
		return err
	}
	if !validReviewStatus(req.Status) {
		return apperr.NewValidation(fmt.Sprintf("invalid status: %s", req.Status), "status")
	}
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return apperr.NewValidation("invalid request id", "id")
	}
	return s.repo.UpdateResearchStatus(ctx, id, req.Status, claims.Email)
}
