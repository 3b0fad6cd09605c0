package auth

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skolarin/skolarin-api/internal/shared"
)

type mockRepository struct {
	usersByEmail    map[string]*User
	usersByUsername map[string]*User
	nextID          int64

	findByEmailErr error
	createErr      error
	createCalls    int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		usersByEmail:    make(map[string]*User),
		usersByUsername: make(map[string]*User),
		nextID:          1,
	}
}

func (m *mockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	user, ok := m.usersByEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (m *mockRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	user, ok := m.usersByUsername[username]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (m *mockRepository) Create(ctx context.Context, email string, username *string, passwordHash string) (*User, error) {
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	if _, exists := m.usersByEmail[email]; exists {
		return nil, ErrEmailTaken
	}
	if username != nil {
		if _, exists := m.usersByUsername[*username]; exists {
			return nil, ErrUsernameTaken
		}
	}
	now := time.Now().UTC()
	user := &User{
		ID:           m.nextID,
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.nextID++
	m.usersByEmail[email] = user
	if username != nil {
		m.usersByUsername[*username] = user
	}
	return user, nil
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	issuer, err := NewIssuer("test-secret", "HS256", time.Hour)
	require.NoError(t, err)
	return NewService(repo, NewHasher(4), issuer)
}

func TestSignupCreatesUser(t *testing.T) {
	t.Parallel()

	repo := newMockRepository()
	svc := newTestService(t, repo)

	user, err := svc.Signup(context.Background(), SignupParams{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Nil(t, user.Username)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	view := user.PublicView()
	assert.Equal(t, int64(1), view.ID)
	assert.Nil(t, view.Username)
}

func TestSignupDuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := newMockRepository()
	svc := newTestService(t, repo)

	_, err := svc.Signup(context.Background(), SignupParams{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	createsBefore := repo.createCalls

	_, err = svc.Signup(context.Background(), SignupParams{Email: "a@x.com", Password: "other-pass"})
	assert.ErrorIs(t, err, ErrEmailTaken)
	// Conflict is detected by the pre-check, no insert attempted.
	assert.Equal(t, createsBefore, repo.createCalls)
}

func TestSignupDuplicateUsername(t *testing.T) {
	t.Parallel()

	repo := newMockRepository()
	svc := newTestService(t, repo)

	username := "tama"
	_, err := svc.Signup(context.Background(), SignupParams{Email: "a@x.com", Password: "secret1", Username: &username})
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), SignupParams{Email: "b@x.com", Password: "secret1", Username: &username})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestSignupConstraintViolationIsAuthoritative(t *testing.T) {
	t.Parallel()

	// Simulates a concurrent signup slipping past the pre-check: the
	// insert itself reports the conflict.
	repo := newMockRepository()
	repo.createErr = ErrEmailTaken
	svc := newTestService(t, repo)

	_, err := svc.Signup(context.Background(), SignupParams{Email: "race@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignupRejectsDegenerateInput(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newMockRepository())

	_, err := svc.Signup(context.Background(), SignupParams{Email: "", Password: "secret1"})
	assert.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Signup(context.Background(), SignupParams{Email: "a@x.com", Password: ""})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestLoginIssuesTokenWithSubject(t *testing.T) {
	t.Parallel()

	repo := newMockRepository()
	svc := newTestService(t, repo)

	user, err := svc.Signup(context.Background(), SignupParams{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "a@x.com", "secret1")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(tok *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	assert.Equal(t, strconv.FormatInt(user.ID, 10), claims["sub"])
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	t.Parallel()

	repo := newMockRepository()
	svc := newTestService(t, repo)

	_, err := svc.Signup(context.Background(), SignupParams{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	_, unknownErr := svc.Login(context.Background(), "nobody@x.com", "secret1")
	_, wrongPassErr := svc.Login(context.Background(), "a@x.com", "wrong")

	assert.ErrorIs(t, unknownErr, shared.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPassErr, shared.ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongPassErr.Error())
}
