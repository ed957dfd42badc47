package lifecycle

import (
	"context"
	"strings"

	"internhub/internal/apperr"
	"internhub/internal/authz"
	"internhub/internal/identity"
	"internhub/internal/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ProfileChanges lists the fields to edit. Nil fields, and a nil Skills,
// stay as they are. Role is accepted only to reject a change of it.
type ProfileChanges struct {
	FullName    *string
	CompanyName *string
	CollegeName *string
	Skills      []string
	Bio         *string
	Location    *string
	Role        *model.Role
}

// UpdateProfile edits a profile on behalf of its owner or an admin. Email,
// password and role never change here.
func (e *Engine) UpdateProfile(ctx context.Context, actor identity.Actor, profileID uuid.UUID, changes ProfileChanges) (*model.Profile, error) {
	profile, err := e.store.Profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(actor, authz.ProfileUpdate, authz.Resource{Profile: profile}); err != nil {
		return nil, err
	}
	if changes.Role != nil && *changes.Role != profile.Role {
		return nil, apperr.Validation("role cannot be changed")
	}
	if changes.CompanyName != nil && profile.Role != model.RoleEmployer {
		return nil, apperr.Validation("company name applies to employers only")
	}
	if changes.CollegeName != nil && profile.Role != model.RoleStudent {
		return nil, apperr.Validation("college name applies to students only")
	}

	expected := profile.UpdatedAt
	details := profile.Details()
	if changes.FullName != nil {
		details.FullName = strings.TrimSpace(*changes.FullName)
		if len(details.FullName) < 2 {
			return nil, apperr.Validation("full name must be at least 2 characters")
		}
	}
	if changes.CompanyName != nil {
		details.CompanyName = changes.CompanyName
	}
	if changes.CollegeName != nil {
		details.CollegeName = changes.CollegeName
	}
	if changes.Skills != nil {
		details.Skills = model.NormalizeSkills(changes.Skills)
	}
	if changes.Bio != nil {
		details.Bio = changes.Bio
	}
	if changes.Location != nil {
		details.Location = changes.Location
	}
	details.UpdatedAt = e.bump(expected)

	if err := e.written("profile", e.store.Profiles.UpdateDetailsIf(ctx, profile.ID, expected, details)); err != nil {
		return nil, err
	}
	details.Apply(profile)

	e.log.WithFields(logrus.Fields{
		"profile_id": profile.ID,
		"actor_id":   actor.ID,
	}).Info("profile updated")
	return profile, nil
}
