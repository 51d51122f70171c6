package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/sharetrack/sharetrack/internal/cache"
	"github.com/sharetrack/sharetrack/internal/metrics"
	"github.com/sharetrack/sharetrack/internal/model"
	"github.com/sharetrack/sharetrack/internal/store"
)

// maxCodeRetries bounds code regeneration on collision. With a 36^6
// code space collisions are rare; hitting the bound means something is
// wrong with the store.
const maxCodeRetries = 5

// ReferralService maintains the referral-code ledger.
type ReferralService struct {
	store      store.ReferralStore
	cache      *cache.Cache
	metrics    metrics.Recorder
	rankingTTL time.Duration
}

// NewReferralService creates a new ReferralService. cache may be nil.
func NewReferralService(st store.ReferralStore, c *cache.Cache, recorder metrics.Recorder, rankingTTL time.Duration) *ReferralService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if rankingTTL <= 0 {
		rankingTTL = cache.DefaultRankingTTL
	}
	return &ReferralService{
		store:      st,
		cache:      c,
		metrics:    recorder,
		rankingTTL: rankingTTL,
	}
}

// GetOrCreateCode returns the user's referral code, generating and
// binding a fresh one on first access. Generation retries on collision;
// a concurrent create for the same user resolves to the winning code.
func (s *ReferralService) GetOrCreateCode(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", ErrInvalidInput
	}

	rc, err := s.store.GetCodeByUser(ctx, userID)
	if err == nil {
		return rc.Code, nil
	}
	if !errors.Is(err, store.ErrCodeNotFound) {
		return "", err
	}

	for i := 0; i < maxCodeRetries; i++ {
		code, err := generateCode()
		if err != nil {
			return "", fmt.Errorf("generate referral code: %w", err)
		}

		err = s.store.CreateCode(ctx, &model.ReferralCode{
			UserID:    userID,
			Code:      code,
			CreatedAt: time.Now().UTC(),
		})
		switch {
		case err == nil:
			return code, nil
		case errors.Is(err, store.ErrCodeTaken):
			continue
		case errors.Is(err, store.ErrUserHasCode):
			// Lost a race against a concurrent create for this user.
			existing, err := s.store.GetCodeByUser(ctx, userID)
			if err != nil {
				return "", err
			}
			return existing.Code, nil
		default:
			return "", err
		}
	}

	return "", errors.New("failed to generate unique referral code after retries")
}

// RegisterReferral applies a referral for newUserID against code. All
// four outcomes are normal returns; only storage failures are errors.
// Each (code, new user) pair counts at most once.
func (s *ReferralService) RegisterReferral(ctx context.Context, code, newUserID string) (model.ReferralOutcome, error) {
	if code == "" || newUserID == "" {
		return "", ErrInvalidInput
	}

	outcome, err := s.store.ApplyReferral(ctx, code, newUserID)
	if err != nil {
		return "", fmt.Errorf("apply referral: %w", err)
	}

	s.metrics.IncReferral(string(outcome))

	if outcome == model.ReferralApplied {
		s.invalidateRanking(ctx)
	}
	return outcome, nil
}

// Ranking returns all code owners sorted by referred count descending
// with a stable tie-break. Served from cache when possible.
func (s *ReferralService) Ranking(ctx context.Context) ([]model.RankingEntry, error) {
	return cachedRanking(ctx, s.cache, s.metrics, cache.ReferralRankingKey, s.rankingTTL, func() ([]model.RankingEntry, error) {
		return s.store.ReferralRanking(ctx)
	})
}

// ResetCounts zeroes all referred counts. Code bindings survive.
func (s *ReferralService) ResetCounts(ctx context.Context) error {
	if err := s.store.ResetReferralCounts(ctx); err != nil {
		return err
	}
	s.invalidateRanking(ctx)
	return nil
}

func (s *ReferralService) invalidateRanking(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.InvalidateRanking(ctx, cache.ReferralRankingKey)
}

// generateCode generates a random referral code using crypto/rand.
func generateCode() (string, error) {
	b := make([]byte, model.CodeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(model.CodeAlphabet))))
		if err != nil {
			return "", err
		}
		b[i] = model.CodeAlphabet[n.Int64()]
	}
	return string(b), nil
}
