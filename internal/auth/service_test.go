package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"FacultyQuizPortal/internal/apperr"
)

type fakeFacultyStore struct {
	byID map[primitive.ObjectID]*Faculty
}

func newFakeFacultyStore() *fakeFacultyStore {
	return &fakeFacultyStore{byID: make(map[primitive.ObjectID]*Faculty)}
}

func (f *fakeFacultyStore) FindByID(ctx context.Context, id primitive.ObjectID) (*Faculty, error) {
	return f.byID[id], nil
}

func (f *fakeFacultyStore) FindByEmail(ctx context.Context, email string) (*Faculty, error) {
	for _, fac := range f.byID {
		if fac.Email == email {
			return fac, nil
		}
	}
	return nil, nil
}

func (f *fakeFacultyStore) FindByAmizoneID(ctx context.Context, amizoneID string) (*Faculty, error) {
	for _, fac := range f.byID {
		if fac.AmizoneID == amizoneID {
			return fac, nil
		}
	}
	return nil, nil
}

func (f *fakeFacultyStore) Create(ctx context.Context, fac *Faculty) error {
	f.byID[fac.ID] = fac
	return nil
}

func (f *fakeFacultyStore) Update(ctx context.Context, fac *Faculty) error {
	if _, ok := f.byID[fac.ID]; !ok {
		return apperr.ErrNotFound
	}
	f.byID[fac.ID] = fac
	return nil
}

type fakeCardEnsurer struct {
	cardID     primitive.ObjectID
	department string
	calls      int
}

func (f *fakeCardEnsurer) EnsureCard(ctx context.Context, facultyID primitive.ObjectID, cardKey, name, position string) (primitive.ObjectID, string, error) {
	f.calls++
	return f.cardID, f.department, nil
}

func newTestService() (*Service, *fakeFacultyStore, *fakeCardEnsurer) {
	store := newFakeFacultyStore()
	cards := &fakeCardEnsurer{cardID: primitive.NewObjectID(), department: "Computer Science"}
	return NewService(store, cards, zap.NewNop()), store, cards
}

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		Name:      "Dr. Meena Iyer",
		Position:  "Associate Professor",
		Roles:     []string{"faculty"},
		Email:     "  Meena.Iyer@University.edu ",
		AmizoneID: " AMZ-4402 ",
		Password:  "s3cret-enough",
	}
}

func TestRegisterNormalizesIdentity(t *testing.T) {
	svc, _, _ := newTestService()

	f, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)

	assert.Equal(t, "meena.iyer@university.edu", f.Email)
	assert.Equal(t, "AMZ-4402", f.AmizoneID)
	assert.True(t, f.IsActive)
	assert.NotEmpty(t, f.PasswordHash)
	assert.NotEqual(t, "s3cret-enough", f.PasswordHash)
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	svc, _, _ := newTestService()

	req := validRegisterRequest()
	req.Email = "not-an-email"
	req.Password = "short"

	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")
}

func TestRegisterRejectsUnknownEnums(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	req := validRegisterRequest()
	req.Position = "Grand Wizard"
	_, err := svc.Register(ctx, req)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	req = validRegisterRequest()
	req.Roles = []string{"faculty", "superuser"}
	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRegisterDuplicateKeys(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	// Same email, differently cased.
	req := validRegisterRequest()
	req.AmizoneID = "AMZ-9999"
	_, err = svc.Register(ctx, req)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	var cerr *apperr.ConflictError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "email", cerr.Field)

	// Fresh email, same amizone id.
	req = validRegisterRequest()
	req.Email = "other@university.edu"
	_, err = svc.Register(ctx, req)
	require.Error(t, err)
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "amizone_id", cerr.Field)
}

func TestAuthenticate(t *testing.T) {
	svc, store, cards := newTestService()
	ctx := context.Background()

	f, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	token, err := svc.Authenticate(ctx, Credential{Email: "MEENA.IYER@university.edu", Password: "s3cret-enough"})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, 1, cards.calls)

	claims, err := ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, f.ID.Hex(), claims.FacultyID)
	assert.Equal(t, cards.cardID.Hex(), claims.CardID)
	assert.Equal(t, "Computer Science", claims.Department)

	stored := store.byID[f.ID]
	assert.Equal(t, 1, stored.LoginCount)
	assert.False(t, stored.LastLogin.IsZero())
}

func TestAuthenticateRejections(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	f, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	_, err = svc.Authenticate(ctx, Credential{Email: "meena.iyer@university.edu", Password: "wrong"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = svc.Authenticate(ctx, Credential{Email: "nobody@university.edu", Password: "s3cret-enough"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	store.byID[f.ID].IsActive = false
	_, err = svc.Authenticate(ctx, Credential{Email: "meena.iyer@university.edu", Password: "s3cret-enough"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestProfileHidesHashWithoutLosingIt(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	f, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	profile, err := svc.Profile(ctx, f.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, profile.PasswordHash)
	assert.NotEmpty(t, store.byID[f.ID].PasswordHash)

	_, err = svc.Profile(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	f, err := svc.Register(ctx, validRegisterRequest())
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, f.ID.Hex(), UpdateProfileRequest{
		Name:       "  Dr. Meena R. Iyer ",
		Department: "Information Technology",
		Position:   "Professor",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dr. Meena R. Iyer", updated.Name)
	assert.Equal(t, "Information Technology", updated.Department)
	assert.Equal(t, "Professor", updated.Position)
	assert.Empty(t, updated.PasswordHash)

	// Persisted record keeps its credentials.
	assert.NotEmpty(t, store.byID[f.ID].PasswordHash)

	_, err = svc.UpdateProfile(ctx, f.ID.Hex(), UpdateProfileRequest{Position: "Janitor"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
