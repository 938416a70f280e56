package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nutrilog/server/internal/module/auth"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Service provides account and body-metric operations.
type Service struct {
	repo      Repository
	tokenRepo auth.RefreshTokenRepository
	jwt       *auth.JWTManager
	logger    *zap.Logger
}

// NewService creates a new profile service.
func NewService(
	repo Repository,
	tokenRepo auth.RefreshTokenRepository,
	jwt *auth.JWTManager,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:      repo,
		tokenRepo: tokenRepo,
		jwt:       jwt,
		logger:    logger,
	}
}

// Register creates a new account and logs it in.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*User, *auth.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, nil, ErrEmailAlreadyExists
	}
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, nil, fmt.Errorf("check email: %w", err)
	}

	if len(req.Password) < 8 {
		return nil, nil, ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        email,
		Name:         req.Name,
		PasswordHash: string(hash),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("create user: %w", err)
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return user, tokens, nil
}

// Login authenticates with email and password.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*User, *auth.TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

// Refresh rotates a refresh token and issues a new pair.
func (s *Service) Refresh(ctx context.Context, rawToken string) (*User, *auth.TokenPair, error) {
	stored, err := s.tokenRepo.GetByHash(ctx, s.jwt.HashRefreshToken(rawToken))
	if err != nil {
		return nil, nil, auth.ErrInvalidToken
	}
	if !stored.IsValid() {
		return nil, nil, auth.ErrTokenExpired
	}

	user, err := s.repo.GetUserByID(ctx, stored.UserID)
	if err != nil {
		return nil, nil, err
	}

	// Rotation: the old token is dead the moment a new one exists
	if err := s.tokenRepo.Revoke(ctx, stored.ID); err != nil {
		return nil, nil, fmt.Errorf("revoke refresh token: %w", err)
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

// Logout revokes all refresh tokens for the user.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	return s.tokenRepo.RevokeAllForUser(ctx, userID)
}

// GetProfile returns the user's body metrics.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

// UpdateProfile creates or replaces the user's body metrics.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*Profile, error) {
	if !req.Sex.IsValid() {
		return nil, fmt.Errorf("%w: unknown sex %q", ErrProfileIncomplete, req.Sex)
	}
	if !req.ActivityLevel.IsValid() {
		return nil, fmt.Errorf("%w: unknown activity level %q", ErrProfileIncomplete, req.ActivityLevel)
	}
	if !req.Goal.IsValid() {
		return nil, fmt.Errorf("%w: unknown goal %q", ErrProfileIncomplete, req.Goal)
	}

	profile := &Profile{
		ID:            uuid.New(),
		UserID:        userID,
		HeightCm:      req.HeightCm,
		WeightKg:      req.WeightKg,
		Age:           req.Age,
		Sex:           req.Sex,
		ActivityLevel: req.ActivityLevel,
		Goal:          req.Goal,
	}

	if err := s.repo.UpsertProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	return s.repo.GetProfile(ctx, userID)
}

// Goals computes the energy metrics for the user's current profile.
func (s *Service) Goals(ctx context.Context, userID uuid.UUID) (*EnergyMetrics, error) {
	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ComputeEnergyMetrics(profile)
}

// DailyCalorieGoal returns the user's calorie target, or 0 when the
// profile is missing or incomplete.
func (s *Service) DailyCalorieGoal(ctx context.Context, userID uuid.UUID) float64 {
	metrics, err := s.Goals(ctx, userID)
	if err != nil {
		return 0
	}
	return metrics.DailyCalorieGoal
}

// issueTokens creates and persists an access/refresh token pair.
func (s *Service) issueTokens(ctx context.Context, user *User) (*auth.TokenPair, error) {
	accessToken, expiresAt, err := s.jwt.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	rawRefresh, refreshHash, refreshExpiry, err := s.jwt.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	stored := &auth.RefreshToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		TokenHash: refreshHash,
		ExpiresAt: refreshExpiry,
	}
	if err := s.tokenRepo.Create(ctx, stored); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &auth.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: rawRefresh,
		TokenType:    "Bearer",
		ExpiresAt:    expiresAt,
	}, nil
}
