package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"FacultyQuizPortal/internal/apperr"
	"FacultyQuizPortal/internal/auth"
)

type fakeStore struct {
	projects map[primitive.ObjectID]*Project
	research map[primitive.ObjectID]*ResearchRequest
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects: make(map[primitive.ObjectID]*Project),
		research: make(map[primitive.ObjectID]*ResearchRequest),
	}
}

func (f *fakeStore) ListProjects(ctx context.Context) ([]*Project, error) {
	out := make([]*Project, 0, len(f.projects))
	for _, p := range f.projects {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) FindProjectByID(ctx context.Context, id primitive.ObjectID) (*Project, error) {
	return f.projects[id], nil
}

func (f *fakeStore) UpdateProjectStatus(ctx context.Context, id primitive.ObjectID, status, reviewedBy string) error {
	p, ok := f.projects[id]
	if !ok {
		return apperr.ErrNotFound
	}
	p.Status = status
	p.ReviewedBy = reviewedBy
	return nil
}

func (f *fakeStore) ListResearchRequests(ctx context.Context) ([]*ResearchRequest, error) {
	out := make([]*ResearchRequest, 0, len(f.research))
	for _, r := range f.research {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) UpdateResearchStatus(ctx context.Context, id primitive.ObjectID, status, reviewedBy string) error {
	r, ok := f.research[id]
	if !ok {
		return apperr.ErrNotFound
	}
	r.Status = status
	r.ReviewedBy = reviewedBy
	return nil
}

func coordinatorClaims() *auth.SessionClaims {
	return &auth.SessionClaims{
		FacultyID: primitive.NewObjectID().Hex(),
		Email:     "coordinator@university.edu",
		Roles:     []string{"admin_project_coordinator"},
	}
}

func TestReviewProject(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, zap.NewNop())
	ctx := context.Background()

	p := &Project{ID: primitive.NewObjectID(), Title: "Smart Attendance", Status: StatusPending}
	store.projects[p.ID] = p

	err := svc.ReviewProject(ctx, coordinatorClaims(), p.ID.Hex(), StatusUpdateRequest{Status: StatusAccepted})
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, p.Status)
	assert.Equal(t, "coordinator@university.edu", p.ReviewedBy)
}

func TestReviewProjectGates(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, zap.NewNop())
	ctx := context.Background()

	p := &Project{ID: primitive.NewObjectID(), Status: StatusPending}
	store.projects[p.ID] = p

	// Plain faculty cannot review projects.
	faculty := &auth.SessionClaims{FacultyID: primitive.NewObjectID().Hex(), Roles: []string{"faculty"}}
	err := svc.ReviewProject(ctx, faculty, p.ID.Hex(), StatusUpdateRequest{Status: StatusAccepted})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	err = svc.ReviewProject(ctx, nil, p.ID.Hex(), StatusUpdateRequest{Status: StatusAccepted})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	err = svc.ReviewProject(ctx, coordinatorClaims(), p.ID.Hex(), StatusUpdateRequest{Status: "approved"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	err = svc.ReviewProject(ctx, coordinatorClaims(), "not-hex", StatusUpdateRequest{Status: StatusAccepted})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	err = svc.ReviewProject(ctx, coordinatorClaims(), primitive.NewObjectID().Hex(), StatusUpdateRequest{Status: StatusAccepted})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	assert.Equal(t, StatusPending, p.Status)
}

func TestReviewResearchRequest(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, zap.NewNop())
	ctx := context.Background()

	r := &ResearchRequest{ID: primitive.NewObjectID(), Title: "Edge ML Survey", Status: StatusPending}
	store.research[r.ID] = r

	// Project coordinators have no say over research requests.
	err := svc.ReviewResearchRequest(ctx, coordinatorClaims(), r.ID.Hex(), StatusUpdateRequest{Status: StatusRejected})
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	reviewer := &auth.SessionClaims{
		FacultyID: primitive.NewObjectID().Hex(),
		Email:     "research.lead@university.edu",
		Roles:     []string{"research_faculty"},
	}
	err = svc.ReviewResearchRequest(ctx, reviewer, r.ID.Hex(), StatusUpdateRequest{Status: StatusRejected})
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, r.Status)
	assert.Equal(t, "research.lead@university.edu", r.ReviewedBy)
}

func TestListingRequiresSession(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Projects(ctx, nil)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	_, err = svc.ResearchRequests(ctx, nil)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	claims := &auth.SessionClaims{FacultyID: primitive.NewObjectID().Hex(), Roles: []string{"faculty"}}
	projects, err := svc.Projects(ctx, claims)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestProjectLookup(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, zap.NewNop())
	ctx := context.Background()
	claims := &auth.SessionClaims{FacultyID: primitive.NewObjectID().Hex(), Roles: []string{"faculty"}}

	p := &Project{ID: primitive.NewObjectID(), Title: "Smart Attendance"}
	store.projects[p.ID] = p

	got, err := svc.Project(ctx, claims, p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Smart Attendance", got.Title)

	_, err = svc.Project(ctx, claims, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
