package core

import (
	"context"
	"errors"
)

var ErrNoProfile = errors.New("profile not found")

// Identity is the caller as seen by packages that must not import profile.
type Identity struct {
	ProfileID   string
	ExternalID  string
	DisplayName string
	AvatarURL   *string
	Role        string
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == "admin"
}

type ProfileReader interface {
	// LookupIdentity returns ErrNoProfile when the external id has not
	// onboarded yet.
	LookupIdentity(ctx context.Context, externalID string) (*Identity, error)
}

// ProfileDirectory resolves the internal profile id stored on rows such as
// menu_images.uploaded_by.
type ProfileDirectory interface {
	IdentityByProfileID(ctx context.Context, profileID string) (*Identity, error)
}
