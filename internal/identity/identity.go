// Package identity turns an authenticated session into a role-bearing actor.
package identity

import (
	"context"
	"errors"

	"internhub/internal/apperr"
	"internhub/internal/model"
	"internhub/internal/repository"

	"github.com/google/uuid"
)

// Actor is the resolved principal issuing a request.
type Actor struct {
	ID   uuid.UUID
	Role model.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// Session is what the identity provider yields: the id of the signed-in user.
type Session struct {
	UserID uuid.UUID
}

type Resolver struct {
	profiles repository.ProfileRepositoryInterface
}

func NewResolver(profiles repository.ProfileRepositoryInterface) *Resolver {
	return &Resolver{profiles: profiles}
}

// ResolveActor loads the session's profile. Unknown users and profiles with a
// role outside the enumeration are not authenticated.
func (r *Resolver) ResolveActor(ctx context.Context, session Session) (Actor, error) {
	if session.UserID == uuid.Nil {
		return Actor{}, apperr.NotAuthenticated("no session")
	}

	profile, err := r.profiles.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Actor{}, apperr.NotAuthenticated("profile not found")
		}
		return Actor{}, err
	}
	if !profile.Role.Valid() {
		return Actor{}, apperr.NotAuthenticated("profile has no valid role")
	}

	return Actor{ID: profile.ID, Role: profile.Role}, nil
}
