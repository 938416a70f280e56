package recognition

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/nutrilog/server/internal/shared/errors"
	"github.com/nutrilog/server/internal/shared/metrics"
	"go.uber.org/zap"
)

// Service orchestrates the recognition pipeline: quota check, primary
// attempt, single fallback handoff, then normalization. Each call is
// independent; there are no retries beyond the one handoff and no state
// carried across calls.
type Service struct {
	primary  Provider
	fallback Provider
	quota    *QuotaTracker

	cache    Cache
	cacheTTL time.Duration

	metrics *metrics.Metrics
	logger  *zap.Logger

	lookupTimeout time.Duration
	imageTimeout  time.Duration
}

// ServiceConfig holds optional service collaborators and tuning.
type ServiceConfig struct {
	Cache         Cache
	CacheTTL      time.Duration
	Metrics       *metrics.Metrics
	Logger        *zap.Logger
	LookupTimeout time.Duration
	ImageTimeout  time.Duration
}

// NewService creates a recognition service.
func NewService(primary, fallback Provider, quota *QuotaTracker, cfg ServiceConfig) *Service {
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 10 * time.Second
	}
	if cfg.ImageTimeout <= 0 {
		cfg.ImageTimeout = 30 * time.Second
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 6 * time.Hour
	}
	return &Service{
		primary:       primary,
		fallback:      fallback,
		quota:         quota,
		cache:         cfg.Cache,
		cacheTTL:      cfg.CacheTTL,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger,
		lookupTimeout: cfg.LookupTimeout,
		imageTimeout:  cfg.ImageTimeout,
	}
}

// AnalyzeImage identifies the food on a photo and returns the canonical
// nutrition record.
func (s *Service) AnalyzeImage(ctx context.Context, image []byte, mealTypeHint string) (*FoodAnalysisResult, error) {
	if len(image) == 0 {
		return nil, apperrors.BadRequest("image is required")
	}

	raw, err := s.attempt(ctx, "analyze_image", s.imageTimeout, func(ctx context.Context, p Provider) (map[string]any, error) {
		return p.AnalyzeImage(ctx, image, mealTypeHint)
	})
	if err != nil {
		return nil, err
	}

	return normalizeResult(raw)
}

// LookupFood returns nutrition facts for a named food.
func (s *Service) LookupFood(ctx context.Context, name string) (*FoodAnalysisResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.BadRequest("food name is required")
	}

	cacheKey := "recognition:lookup:" + strings.ToLower(name)
	if cached, ok := s.cacheGet(ctx, cacheKey); ok {
		var result FoodAnalysisResult
		if err := json.Unmarshal([]byte(cached), &result); err == nil {
			return &result, nil
		}
	}

	raw, err := s.attempt(ctx, "lookup_food", s.lookupTimeout, func(ctx context.Context, p Provider) (map[string]any, error) {
		return p.LookupFood(ctx, name)
	})
	if err != nil {
		return nil, err
	}

	result, err := normalizeResult(raw)
	if err != nil {
		return nil, err
	}

	s.cachePut(ctx, cacheKey, result)
	return result, nil
}

// SearchFoods returns candidate foods matching a query. An empty result
// list is a valid outcome.
func (s *Service) SearchFoods(ctx context.Context, query string) ([]SearchResultItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.BadRequest("search query is required")
	}

	cacheKey := "recognition:search:" + strings.ToLower(query)
	if cached, ok := s.cacheGet(ctx, cacheKey); ok {
		var items []SearchResultItem
		if err := json.Unmarshal([]byte(cached), &items); err == nil {
			return items, nil
		}
	}

	raw, err := s.attempt(ctx, "search_foods", s.lookupTimeout, func(ctx context.Context, p Provider) (map[string]any, error) {
		return p.SearchFoods(ctx, query)
	})
	if err != nil {
		return nil, err
	}

	items := normalizeSearchResults(raw)
	s.cachePut(ctx, cacheKey, items)
	return items, nil
}

// RemainingQuota returns how many provider calls are left today.
func (s *Service) RemainingQuota(ctx context.Context) int {
	return s.quota.Remaining(ctx)
}

// attempt runs the quota gate, the primary provider and, on any primary
// failure, the single fallback handoff.
func (s *Service) attempt(
	ctx context.Context,
	operation string,
	timeout time.Duration,
	call func(ctx context.Context, p Provider) (map[string]any, error),
) (map[string]any, error) {
	state := s.quota.CheckAndMaybeReset(ctx)
	if state.Used >= s.quota.Limit() {
		if s.metrics != nil {
			s.metrics.QuotaRejectedTotal.Inc()
		}
		return nil, apperrors.QuotaExceeded(
			fmt.Sprintf("daily recognition quota of %d reached", s.quota.Limit()))
	}

	raw, primaryErr := s.callProvider(ctx, operation, s.primary, timeout, call)
	if primaryErr == nil {
		return raw, nil
	}

	// Diagnostics only; a logging failure must never affect the call
	s.logWarn("primary provider failed, trying fallback",
		zap.String("operation", operation),
		zap.Error(primaryErr),
	)

	// Only fallback traffic counts against the daily quota
	s.quota.Increment(ctx)
	if s.metrics != nil {
		s.metrics.FallbackTotal.Inc()
	}

	raw, fallbackErr := s.callProvider(ctx, operation, s.fallback, timeout, call)
	if fallbackErr == nil {
		return raw, nil
	}

	var appErr *apperrors.AppError
	if errors.As(fallbackErr, &appErr) {
		return nil, fallbackErr
	}
	return nil, apperrors.ProviderUnavailable(
		fmt.Sprintf("%s failed on both providers", operation),
		errors.Join(primaryErr, fallbackErr),
	)
}

// callProvider invokes one provider with a bounded timeout and records
// the outcome.
func (s *Service) callProvider(
	ctx context.Context,
	operation string,
	p Provider,
	timeout time.Duration,
	call func(ctx context.Context, p Provider) (map[string]any, error),
) (map[string]any, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	raw, err := call(callCtx, p)
	if s.metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		s.metrics.RecordRecognition(operation, p.Name(), outcome, time.Since(start))
	}
	return raw, err
}

func (s *Service) cacheGet(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	return s.cache.Get(ctx, key)
}

func (s *Service) cachePut(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return
	}
	s.cache.Set(ctx, key, string(encoded), s.cacheTTL)
}

func (s *Service) logWarn(msg string, fields ...zap.Field) {
	if s.logger == nil {
		return
	}
	s.logger.Warn(msg, fields...)
}
