package faculty

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"FacultyQuizPortal/internal/apperr"
	"FacultyQuizPortal/internal/auth"
	"FacultyQuizPortal/internal/subject"
)

// CardStore is the repository behavior the service depends on.
type CardStore interface {
	FindByKey(ctx context.Context, cardKey string) (*FacultyCard, error)
	FindByFaculty(ctx context.Context, facultyID primitive.ObjectID) (*FacultyCard, error)
	FindStale(ctx context.Context, facultyID primitive.ObjectID, cardKey string) (*FacultyCard, error)
	Insert(ctx context.Context, card *FacultyCard) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	UpdateByKey(ctx context.Context, cardKey string, card *FacultyCard) error
	UpdateByFaculty(ctx context.Context, facultyID primitive.ObjectID, card *FacultyCard) error
}

type Service struct {
	cards    CardStore
	subjects subject.Registry
	logger   *zap.Logger
}

func NewService(cards CardStore, subjects subject.Registry, logger *zap.Logger) *Service {
	return &Service{cards: cards, subjects: subjects, logger: logger}
}

// EnsureCard guarantees a faculty has a card at login, creating one with
// defaults when missing. Satisfies auth.CardEnsurer.
func (s *Service) EnsureCard(ctx context.Context, facultyID primitive.ObjectID, cardKey, name, position string) (primitive.ObjectID, string, error) {
	card, err := s.cards.FindByFaculty(ctx, facultyID)
	if err != nil {
		return primitive.NilObjectID, "", err
	}
	if card != nil {
		return card.ID, card.Department, nil
	}

	if cardKey == "" {
		// Faculty without an amizone id get a generated key; the save
		// path adopts the amizone id once one exists.
		cardKey = uuid.NewString()
	}
	if position == "" {
		position = "Assistant Professor"
	}
	now := time.Now()
	card = &FacultyCard{
		ID:               primitive.NewObjectID(),
		CardKey:          cardKey,
		FacultyID:        facultyID,
		Name:             name,
		Department:       "Unknown",
		Position:         position,
		ClassAssignments: []ClassAssignment{},
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.cards.Insert(ctx, card); err != nil {
		return primitive.NilObjectID, "", err
	}
	s.logger.Info("faculty card created", zap.String("card_key", cardKey))
	return card.ID, card.Department, nil
}

// SaveAssignments resolves every subject name to its canonical subject
// and upserts the session faculty's card. The branch order matters: a
// card stored under a legacy key is deleted first, so one faculty can
// never end up with two cards.
func (s *Service) SaveAssignments(ctx context.Context, claims *auth.SessionClaims, inputs []AssignmentInput) (*FacultyCard, error) {
	if claims == nil || claims.AmizoneID == "" {
		return nil, apperr.ErrUnauthorized
	}
	facultyID, err := primitive.ObjectIDFromHex(claims.FacultyID)
	if err != nil {
		return nil, apperr.NewValidation("faculty id missing from session", "faculty_id")
	}
	if inputs == nil {
		return nil, apperr.NewValidation("assignments must be an array", "assignments")
	}

	assignments := make([]ClassAssignment, 0, len(inputs))
	for _, in := range inputs {
		if in.Semester < 1 || in.Semester > 12 {
			return nil, apperr.NewValidation(fmt.Sprintf("semester %d out of range", in.Semester), "semester")
		}
		refs := make([]SubjectRef, 0, len(in.Subjects))
		for _, name := range in.Subjects {
			subj, err := s.subjects.FindOrCreate(ctx, name)
			if err != nil {
				return nil, err
			}
			refs = append(refs, SubjectRef{
				SubjectID: subj.ID,
				Name:      subj.Name,
				Quizzes:   []QuizRef{},
			})
		}
		assignments = append(assignments, ClassAssignment{
			Batch:      strings.ToUpper(strings.TrimSpace(in.Course)),
			Semester:   in.Semester,
			Section:    strings.TrimSpace(in.Section),
			RoomNumber: strings.TrimSpace(in.RoomNumber),
			Subjects:   refs,
		})
	}

	key := claims.AmizoneID
	now := time.Now()
	card := &FacultyCard{
		CardKey:          key,
		FacultyID:        facultyID,
		Name:             claims.Name,
		Department:       claims.Department,
		Position:         claims.Position,
		ClassAssignments: assignments,
		IsActive:         true,
		UpdatedAt:        now,
	}

	// 1. A card for this faculty under the wrong legacy key goes first.
	stale, err := s.cards.FindStale(ctx, facultyID, key)
	if err != nil {
		return nil, err
	}
	if stale != nil {
		s.logger.Info("deleting stale faculty card",
			zap.String("old_key", stale.CardKey), zap.String("new_key", key))
		if err := s.cards.DeleteByID(ctx, stale.ID); err != nil {
			return nil, err
		}
	}

	// 2. A card already on the stable key is updated in place.
	existing, err := s.cards.FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		card.ID = existing.ID
		card.CreatedAt = existing.CreatedAt
		if err := s.cards.UpdateByKey(ctx, key, card); err != nil {
			return nil, err
		}
		return card, nil
	}

	// 3. Any remaining card for this faculty adopts the stable key.
	byFaculty, err := s.cards.FindByFaculty(ctx, facultyID)
	if err != nil {
		return nil, err
	}
	if byFaculty != nil {
		card.ID = byFaculty.ID
		card.CreatedAt = byFaculty.CreatedAt
		if err := s.cards.UpdateByFaculty(ctx, facultyID, card); err != nil {
			return nil, err
		}
		return card, nil
	}

	// 4. First save for this faculty: a brand new card.
	card.ID = primitive.NewObjectID()
	card.CreatedAt = now
	if err := s.cards.Insert(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// FetchAssignments returns the session faculty's class assignments
// reshaped for the UI. Missing card or empty assignments come back as an
// empty list, not an error.
func (s *Service) FetchAssignments(ctx context.Context, claims *auth.SessionClaims) ([]AssignmentView, error) {
	if claims == nil || claims.AmizoneID == "" {
		return nil, apperr.ErrUnauthorized
	}
	card, err := s.cards.FindByKey(ctx, claims.AmizoneID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return []AssignmentView{}, nil
	}

	views := make([]AssignmentView, 0, len(card.ClassAssignments))
	for _, a := range card.ClassAssignments {
		names := make([]string, 0, len(a.Subjects))
		for _, s := range a.Subjects {
			names = append(names, s.Name)
		}
		views = append(views, AssignmentView{
			Course:     a.Batch,
			Semester:   a.Semester,
			Section:    a.Section,
			RoomNumber: a.RoomNumber,
			Subjects:   names,
		})
	}
	return views, nil
}
