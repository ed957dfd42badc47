package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"internhub/internal/apperr"
	"internhub/internal/authz"
	"internhub/internal/identity"
	"internhub/internal/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type NewInternship struct {
	// EmployerID names the owner when an admin posts on an employer's
	// behalf. Employers always own what they post.
	EmployerID          uuid.UUID
	Title               string
	Description         string
	Location            string
	Status              model.InternshipStatus
	Vacancies           int
	ApplicationDeadline time.Time
	StartDate           time.Time
	EndDate             time.Time
	SkillsRequired      []string
}

func (e *Engine) CreateInternship(ctx context.Context, actor identity.Actor, input NewInternship) (*model.Internship, error) {
	owner := input.EmployerID
	if owner == uuid.Nil {
		if actor.IsAdmin() {
			return nil, apperr.Validation("employer_id is required")
		}
		owner = actor.ID
	}

	now := e.now()
	internship := &model.Internship{
		EmployerID:          owner,
		Title:               strings.TrimSpace(input.Title),
		Description:         input.Description,
		Location:            input.Location,
		Status:              input.Status,
		Vacancies:           input.Vacancies,
		ApplicationDeadline: model.StartOfDay(input.ApplicationDeadline),
		StartDate:           model.StartOfDay(input.StartDate),
		EndDate:             model.StartOfDay(input.EndDate),
		SkillsRequired:      model.NormalizeSkills(input.SkillsRequired),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if internship.Status == "" {
		internship.Status = model.InternshipStatusDraft
	}

	if err := authz.Check(actor, authz.InternshipCreate, authz.Resource{Internship: internship}); err != nil {
		return nil, err
	}
	if actor.ID != owner {
		if err := e.validateEmployer(ctx, owner); err != nil {
			return nil, err
		}
	}
	if internship.Status != model.InternshipStatusDraft && internship.Status != model.InternshipStatusPublished {
		return nil, apperr.Validation(fmt.Sprintf("an internship cannot be created as %q", internship.Status))
	}
	if err := validateInternship(internship); err != nil {
		return nil, err
	}

	if err := e.store.Internships.Create(ctx, internship); err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{
		"internship_id": internship.ID,
		"employer_id":   owner,
		"status":        internship.Status,
	}).Info("internship created")
	return internship, nil
}

func (e *Engine) validateEmployer(ctx context.Context, employerID uuid.UUID) error {
	employer, err := e.store.Profiles.GetByID(ctx, employerID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Validation("employer does not exist")
		}
		return err
	}
	if employer.Role != model.RoleEmployer {
		return apperr.Validation("internships can only be owned by employers")
	}
	return nil
}

// validateInternship checks the editable fields; dates are already
// truncated to days.
func validateInternship(internship *model.Internship) error {
	switch {
	case internship.Title == "":
		return apperr.Validation("title is required")
	case internship.Vacancies < 1:
		return apperr.Validation("vacancies must be at least 1")
	case internship.ApplicationDeadline.IsZero() || internship.StartDate.IsZero() || internship.EndDate.IsZero():
		return apperr.Validation("application deadline, start date and end date are required")
	case internship.EndDate.Before(internship.StartDate):
		return apperr.Validation("end date must not be before start date")
	case internship.StartDate.Before(internship.ApplicationDeadline):
		return apperr.Validation("application deadline must not be after start date")
	}
	return nil
}

// InternshipChanges lists the fields to edit. Nil fields, and a nil
// SkillsRequired, stay as they are; an empty SkillsRequired clears them.
type InternshipChanges struct {
	Title               *string
	Description         *string
	Location            *string
	Vacancies           *int
	ApplicationDeadline *time.Time
	StartDate           *time.Time
	EndDate             *time.Time
	SkillsRequired      []string
}

// UpdateInternship edits a draft or published internship on behalf of its
// employer or an admin. The edited internship must pass the same checks as
// a new one.
func (e *Engine) UpdateInternship(ctx context.Context, actor identity.Actor, internshipID uuid.UUID, changes InternshipChanges) (*model.Internship, error) {
	internship, err := e.store.Internships.GetByID(ctx, internshipID)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(actor, authz.InternshipUpdate, authz.Resource{Internship: internship}); err != nil {
		return nil, err
	}
	if internship.Status == model.InternshipStatusClosed {
		return nil, apperr.New(apperr.KindInvalidTransition, "a closed internship cannot be edited", nil)
	}

	expected := internship.UpdatedAt
	details := internship.Details()
	if changes.Title != nil {
		details.Title = strings.TrimSpace(*changes.Title)
	}
	if changes.Description != nil {
		details.Description = *changes.Description
	}
	if changes.Location != nil {
		details.Location = *changes.Location
	}
	if changes.Vacancies != nil {
		details.Vacancies = *changes.Vacancies
	}
	if changes.ApplicationDeadline != nil {
		details.ApplicationDeadline = model.StartOfDay(*changes.ApplicationDeadline)
	}
	if changes.StartDate != nil {
		details.StartDate = model.StartOfDay(*changes.StartDate)
	}
	if changes.EndDate != nil {
		details.EndDate = model.StartOfDay(*changes.EndDate)
	}
	if changes.SkillsRequired != nil {
		details.SkillsRequired = model.NormalizeSkills(changes.SkillsRequired)
	}
	details.UpdatedAt = e.bump(expected)

	edited := *internship
	details.Apply(&edited)
	if err := validateInternship(&edited); err != nil {
		return nil, err
	}

	if err := e.written("internship", e.store.Internships.UpdateDetailsIf(ctx, internship.ID, expected, details)); err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{
		"internship_id": internship.ID,
		"actor_id":      actor.ID,
	}).Info("internship updated")
	return &edited, nil
}

// ChangeInternshipStatus publishes or closes an internship.
func (e *Engine) ChangeInternshipStatus(ctx context.Context, actor identity.Actor, internshipID uuid.UUID, target model.InternshipStatus) (*model.Internship, error) {
	if !target.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("unknown internship status %q", target))
	}

	internship, err := e.store.Internships.GetByID(ctx, internshipID)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(actor, authz.InternshipUpdate, authz.Resource{Internship: internship}); err != nil {
		return nil, err
	}

	from := internship.Status
	if !InternshipTransitionAllowed(from, target) {
		return nil, apperr.InvalidTransition(string(from), string(target))
	}
	if err := e.written("internship", e.store.Internships.UpdateStatusIf(ctx, internship.ID, from, target)); err != nil {
		return nil, err
	}
	internship.Status = target
	internship.UpdatedAt = e.now()
	e.metrics.RecordTransition("internship", string(from), string(target))

	e.log.WithFields(logrus.Fields{
		"internship_id": internship.ID,
		"actor_id":      actor.ID,
		"from":          from,
		"to":            target,
	}).Info("internship status changed")
	return internship, nil
}

// GetInternship returns the internship if actor may see it. Drafts are
// visible to their employer and admins only.
func (e *Engine) GetInternship(ctx context.Context, actor identity.Actor, internshipID uuid.UUID) (*model.Internship, error) {
	internship, err := e.store.Internships.GetByID(ctx, internshipID)
	if err != nil {
		return nil, err
	}
	res := authz.Resource{Internship: internship}
	if actor.Role == model.RoleStudent {
		if res.Member, err = e.isMember(ctx, internship.ID, actor.ID); err != nil {
			return nil, err
		}
	}
	if err := authz.Check(actor, authz.InternshipRead, res); err != nil {
		return nil, err
	}
	return internship, nil
}

type OpenInternshipQuery struct {
	// Search matches title, description, company name or a required skill.
	Search string
	// Skills matches internships requiring any of them.
	Skills []string
	Limit  int
}

// ListOpenInternships lists published internships still taking
// applications today, newest first.
func (e *Engine) ListOpenInternships(ctx context.Context, query OpenInternshipQuery) ([]model.Internship, error) {
	today := model.StartOfDay(e.now())
	return e.store.Internships.Find(ctx, model.InternshipFilter{
		Statuses:          []model.InternshipStatus{model.InternshipStatusPublished},
		DeadlineOnOrAfter: &today,
		Search:            strings.TrimSpace(query.Search),
		Skills:            model.NormalizeSkills(query.Skills),
		NewestFirst:       true,
		Limit:             query.Limit,
	})
}
