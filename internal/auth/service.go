package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"FacultyQuizPortal/internal/apperr"
)

const sessionDuration = 24 * time.Hour

// FacultyStore is the slice of repository behavior the service needs.
type FacultyStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*Faculty, error)
	FindByEmail(ctx context.Context, email string) (*Faculty, error)
	FindByAmizoneID(ctx context.Context, amizoneID string) (*Faculty, error)
	Create(ctx context.Context, f *Faculty) error
	Update(ctx context.Context, f *Faculty) error
}

// CardEnsurer guarantees a FacultyCard exists for a faculty at login.
// Implemented by the faculty service.
type CardEnsurer interface {
	EnsureCard(ctx context.Context, facultyID primitive.ObjectID, cardKey, name, position string) (cardID primitive.ObjectID, department string, err error)
}

type Service struct {
	repo     FacultyStore
	cards    CardEnsurer
	validate *validator.Validate
	logger   *zap.Logger
}

func NewService(repo FacultyStore, cards CardEnsurer, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		cards:    cards,
		validate: validator.New(),
		logger:   logger,
	}
}

// Register creates a new faculty record after validating position and
// role enums and both unique keys. Email and amizone id are stored
// trimmed, email lowercased.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Faculty, error) {
	if err := s.validate.Struct(req); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, strings.ToLower(fe.Field()))
			}
		}
		return nil, apperr.NewValidation("missing or invalid fields", fields...)
	}

	if !validPosition(req.Position) {
		return nil, apperr.NewValidation(fmt.Sprintf("invalid position: %s", req.Position), "position")
	}
	if bad := invalidRoles(req.Roles); len(bad) > 0 {
		return nil, apperr.NewValidation(fmt.Sprintf("invalid roles: %s", strings.Join(bad, ", ")), "roles")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	amizoneID := strings.TrimSpace(req.AmizoneID)

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.NewConflict("email")
	}
	existing, err = s.repo.FindByAmizoneID(ctx, amizoneID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.NewConflict("amizone_id")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	f := &Faculty{
		ID:           primitive.NewObjectID(),
		Name:         strings.TrimSpace(req.Name),
		Position:     req.Position,
		Roles:        req.Roles,
		Email:        email,
		AmizoneID:    amizoneID,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	s.logger.Info("faculty registered", zap.String("email", email))
	return f, nil
}

// Authenticate checks credentials, makes sure a FacultyCard exists for
// the faculty, and issues a session token.
func (s *Service) Authenticate(ctx context.Context, cred Credential) (string, error) {
	email := strings.ToLower(strings.TrimSpace(cred.Email))
	f, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if f == nil || !CheckPasswordHash(cred.Password, f.PasswordHash) {
		return "", fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)
	}
	if !f.IsActive {
		return "", fmt.Errorf("%w: account disabled", apperr.ErrUnauthorized)
	}

	cardID, department, err := s.cards.EnsureCard(ctx, f.ID, f.AmizoneID, f.Name, f.Position)
	if err != nil {
		return "", err
	}
	if department != "" {
		f.Department = department
	}

	f.LastLogin = time.Now()
	f.LoginCount++
	f.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, f); err != nil {
		s.logger.Warn("failed to record login", zap.String("email", email), zap.Error(err))
	}

	return GenerateSessionToken(f, cardID, sessionDuration)
}

func (s *Service) get(ctx context.Context, facultyID string) (*Faculty, error) {
	id, err := primitive.ObjectIDFromHex(facultyID)
	if err != nil {
		return nil, apperr.ErrNotFound
	}
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, apperr.ErrNotFound
	}
	return f, nil
}

// Profile returns the faculty record behind a session, without the hash.
func (s *Service) Profile(ctx context.Context, facultyID string) (*Faculty, error) {
	f, err := s.get(ctx, facultyID)
	if err != nil {
		return nil, err
	}
	safe := *f
	safe.PasswordHash = ""
	return &safe, nil
}

// UpdateProfile mutates the editable identity fields only.
func (s *Service) UpdateProfile(ctx context.Context, facultyID string, req UpdateProfileRequest) (*Faculty, error) {
	f, err := s.get(ctx, facultyID)
	if err != nil {
		return nil, err
	}
	if req.Name != "" {
		f.Name = strings.TrimSpace(req.Name)
	}
	if req.Department != "" {
		f.Department = strings.TrimSpace(req.Department)
	}
	if req.Position != "" {
		if !validPosition(req.Position) {
			return nil, apperr.NewValidation(fmt.Sprintf("invalid position: %s", req.Position), "position")
		}
		f.Position = req.Position
	}
	f.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	safe := *f
	safe.PasswordHash = ""
	return &safe, nil
}
