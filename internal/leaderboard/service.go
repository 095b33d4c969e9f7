package leaderboard

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/apperr"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/core"
)

type Service struct {
	repo         Repository
	profiles     core.ProfileReader
	defaultLimit int
	maxLimit     int
	log          *zap.Logger
}

func NewService(
	repo Repository,
	profiles core.ProfileReader,
	defaultLimit int,
	maxLimit int,
	log *zap.Logger,
) *Service {
	if defaultLimit <= 0 {
		defaultLimit = 100
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &Service{
		repo:         repo,
		profiles:     profiles,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		log:          log,
	}
}

// Get returns the top entries plus the caller's own entry, which is looked up
// separately so it is present even when the caller ranks outside the window.
func (s *Service) Get(ctx context.Context, limit int, callerExternalID string) (*Board, error) {
	switch {
	case limit <= 0:
		limit = s.defaultLimit
	case limit > s.maxLimit:
		limit = s.maxLimit
	}

	entries, err := s.repo.Top(ctx, limit)
	if err != nil {
		return nil, apperr.Database("failed to fetch leaderboard", err)
	}
	if entries == nil {
		entries = []Entry{}
	}

	board := &Board{Entries: entries}
	if callerExternalID == "" {
		return board, nil
	}

	identity, err := s.profiles.LookupIdentity(ctx, callerExternalID)
	if errors.Is(err, core.ErrNoProfile) {
		return board, nil
	}
	if err != nil {
		return nil, apperr.Database("failed to fetch profile", err)
	}

	entry, err := s.repo.ForProfile(ctx, identity.ProfileID)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return nil, apperr.Database("failed to fetch leaderboard entry", err)
	default:
		board.UserEntry = entry
	}

	return board, nil
}

// --------------------------------------------------
// Manual recompute (menuctl / admin)
// --------------------------------------------------
func (s *Service) Recompute(ctx context.Context) (int, error) {
	n, err := s.repo.Recompute(ctx)
	if err != nil {
		return 0, apperr.Database("failed to recompute leaderboard", err)
	}

	s.log.Info("leaderboard recomputed", zap.Int("entries", n))
	return n, nil
}
