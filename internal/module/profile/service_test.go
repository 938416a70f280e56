package profile

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nutrilog/server/internal/module/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memRepository is an in-memory Repository for tests.
type memRepository struct {
	users    map[uuid.UUID]*User
	profiles map[uuid.UUID]*Profile
}

func newMemRepository() *memRepository {
	return &memRepository{
		users:    map[uuid.UUID]*User{},
		profiles: map[uuid.UUID]*Profile{},
	}
}

func (r *memRepository) CreateUser(ctx context.Context, user *User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (r *memRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *memRepository) UpdateUser(ctx context.Context, user *User) error {
	r.users[user.ID] = user
	return nil
}

func (r *memRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

func (r *memRepository) UpsertProfile(ctx context.Context, profile *Profile) error {
	r.profiles[profile.UserID] = profile
	return nil
}

// memTokenRepository is an in-memory auth.RefreshTokenRepository.
type memTokenRepository struct {
	tokens map[string]*auth.RefreshToken
}

func newMemTokenRepository() *memTokenRepository {
	return &memTokenRepository{tokens: map[string]*auth.RefreshToken{}}
}

func (r *memTokenRepository) Create(ctx context.Context, token *auth.RefreshToken) error {
	r.tokens[token.TokenHash] = token
	return nil
}

func (r *memTokenRepository) GetByHash(ctx context.Context, tokenHash string) (*auth.RefreshToken, error) {
	t, ok := r.tokens[tokenHash]
	if !ok {
		return nil, auth.ErrTokenNotFound
	}
	return t, nil
}

func (r *memTokenRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	for _, t := range r.tokens {
		if t.ID == id {
			now := time.Now()
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *memTokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	for _, t := range r.tokens {
		if t.UserID == userID {
			now := time.Now()
			t.RevokedAt = &now
		}
	}
	return nil
}

func (r *memTokenRepository) DeleteExpired(ctx context.Context) error {
	return nil
}

func newTestService(t *testing.T) (*Service, *memRepository, *memTokenRepository) {
	t.Helper()
	repo := newMemRepository()
	tokenRepo := newMemTokenRepository()
	jwt := auth.NewJWTManager(&auth.JWTConfig{
		Secret:             "test-secret",
		AccessTokenExpiry:  auth.DefaultJWTConfig().AccessTokenExpiry,
		RefreshTokenExpiry: auth.DefaultJWTConfig().RefreshTokenExpiry,
		Issuer:             "nutrilog-test",
	})
	return NewService(repo, tokenRepo, jwt, zap.NewNop()), repo, tokenRepo
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and issues tokens", func(t *testing.T) {
		svc, repo, tokenRepo := newTestService(t)

		user, tokens, err := svc.Register(ctx, &RegisterRequest{
			Email:    "Alex@Example.com",
			Name:     "Alex",
			Password: "hunter2hunter2",
		})
		require.NoError(t, err)

		assert.Equal(t, "alex@example.com", user.Email, "email is lowercased")
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
		assert.Len(t, repo.users, 1)
		assert.Len(t, tokenRepo.tokens, 1)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, _, err := svc.Register(ctx, &RegisterRequest{Email: "a@b.com", Name: "A", Password: "hunter2hunter2"})
		require.NoError(t, err)

		_, _, err = svc.Register(ctx, &RegisterRequest{Email: "a@b.com", Name: "A", Password: "hunter2hunter2"})
		assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	})

	t.Run("short password rejected", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, _, err := svc.Register(ctx, &RegisterRequest{Email: "a@b.com", Name: "A", Password: "short"})
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, _, err := svc.Register(ctx, &RegisterRequest{Email: "a@b.com", Name: "A", Password: "hunter2hunter2"})
		require.NoError(t, err)

		user, tokens, err := svc.Login(ctx, &LoginRequest{Email: "a@b.com", Password: "hunter2hunter2"})
		require.NoError(t, err)
		assert.Equal(t, "a@b.com", user.Email)
		assert.NotEmpty(t, tokens.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, _, err := svc.Register(ctx, &RegisterRequest{Email: "a@b.com", Name: "A", Password: "hunter2hunter2"})
		require.NoError(t, err)

		_, _, err = svc.Login(ctx, &LoginRequest{Email: "a@b.com", Password: "wrong-password"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, _, err := svc.Login(ctx, &LoginRequest{Email: "nobody@b.com", Password: "whatever"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("rotates the token", func(t *testing.T) {
		svc, _, tokenRepo := newTestService(t)
		_, tokens, err := svc.Register(ctx, &RegisterRequest{Email: "a@b.com", Name: "A", Password: "hunter2hunter2"})
		require.NoError(t, err)

		_, newTokens, err := svc.Refresh(ctx, tokens.RefreshToken)
		require.NoError(t, err)
		assert.NotEqual(t, tokens.RefreshToken, newTokens.RefreshToken)

		// The old token no longer works
		_, _, err = svc.Refresh(ctx, tokens.RefreshToken)
		assert.Error(t, err)

		assert.Len(t, tokenRepo.tokens, 2)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, _, err := svc.Refresh(ctx, "not-a-token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}

func TestService_Profile(t *testing.T) {
	ctx := context.Background()

	t.Run("update then read back", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		user, _, err := svc.Register(ctx, &RegisterRequest{Email: "a@b.com", Name: "A", Password: "hunter2hunter2"})
		require.NoError(t, err)

		profile, err := svc.UpdateProfile(ctx, user.ID, &UpdateProfileRequest{
			HeightCm:      180,
			WeightKg:      80,
			Age:           30,
			Sex:           SexMale,
			ActivityLevel: ActivityModerate,
			Goal:          GoalMaintain,
		})
		require.NoError(t, err)
		assert.Equal(t, 180.0, profile.HeightCm)

		metrics, err := svc.Goals(ctx, user.ID)
		require.NoError(t, err)
		assert.InDelta(t, 1780.0*1.55, metrics.DailyCalorieGoal, 0.01)
	})

	t.Run("invalid enum values rejected", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.UpdateProfile(ctx, uuid.New(), &UpdateProfileRequest{
			HeightCm: 180, WeightKg: 80, Age: 30,
			Sex: Sex("robot"), ActivityLevel: ActivityLight, Goal: GoalLose,
		})
		assert.ErrorIs(t, err, ErrProfileIncomplete)
	})

	t.Run("goals without a profile", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Goals(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrProfileNotFound)

		assert.Zero(t, svc.DailyCalorieGoal(ctx, uuid.New()))
	})
}
