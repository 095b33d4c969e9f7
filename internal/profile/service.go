package profile

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/AffanShaikhsurab/foodosys-sub001/internal/apperr"
	"github.com/AffanShaikhsurab/foodosys-sub001/internal/core"
)

type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create onboards userID. Role is always trainee; admins are promoted out of
// band with SetRole.
func (s *Service) Create(ctx context.Context, userID string, req CreateRequest) (*Profile, error) {
	diet := req.DietaryPreference
	if diet == "" {
		diet = DietVegetarian
	}

	p := &Profile{
		UserID:            userID,
		DisplayName:       strings.TrimSpace(req.DisplayName),
		AvatarURL:         req.AvatarURL,
		Role:              RoleTrainee,
		DietaryPreference: diet,
	}
	if p.DisplayName == "" {
		return nil, apperr.Validation("display_name is required", nil)
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if errors.Is(err, ErrExists) {
			return nil, apperr.Conflict("Profile already exists")
		}
		return nil, apperr.Database("failed to create profile", err)
	}

	s.log.Info("profile created",
		zap.String("user_id", userID),
		zap.String("profile_id", p.ID))
	return p, nil
}

func (s *Service) Me(ctx context.Context, userID string) (*Profile, error) {
	p, err := s.repo.FindByUserID(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("Profile not found")
	}
	if err != nil {
		return nil, apperr.Database("failed to fetch profile", err)
	}
	return p, nil
}

func (s *Service) SetRole(ctx context.Context, userID string, role Role) error {
	if !role.Valid() {
		return apperr.Validation("invalid role", map[string]string{"role": string(role)})
	}

	err := s.repo.SetRole(ctx, userID, role)
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("Profile not found")
	}
	if err != nil {
		return apperr.Database("failed to update role", err)
	}

	s.log.Info("role updated",
		zap.String("user_id", userID),
		zap.String("role", string(role)))
	return nil
}

// LookupIdentity implements core.ProfileReader.
func (s *Service) LookupIdentity(ctx context.Context, externalID string) (*core.Identity, error) {
	p, err := s.repo.FindByUserID(ctx, externalID)
	return identityOf(p, err)
}

// IdentityByProfileID implements core.ProfileDirectory.
func (s *Service) IdentityByProfileID(ctx context.Context, profileID string) (*core.Identity, error) {
	p, err := s.repo.FindByID(ctx, profileID)
	return identityOf(p, err)
}

func identityOf(p *Profile, err error) (*core.Identity, error) {
	if errors.Is(err, ErrNotFound) {
		return nil, core.ErrNoProfile
	}
	if err != nil {
		return nil, err
	}

	return &core.Identity{
		ProfileID:   p.ID,
		ExternalID:  p.UserID,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		Role:        string(p.Role),
	}, nil
}
