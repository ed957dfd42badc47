package lifecycle

import (
	"context"
	"fmt"

	"internhub/internal/apperr"
	"internhub/internal/authz"
	"internhub/internal/identity"
	"internhub/internal/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SubmitApplication files a pending application from actor for the
// internship. The internship must be published with its deadline not yet
// passed, whoever asks.
func (e *Engine) SubmitApplication(ctx context.Context, actor identity.Actor, internshipID uuid.UUID, coverLetter *string) (*model.Application, error) {
	internship, err := e.store.Internships.GetByID(ctx, internshipID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	if internship.Status != model.InternshipStatusPublished {
		return nil, apperr.Validation("internship is not accepting applications")
	}
	if internship.DeadlinePassed(now) {
		return nil, apperr.Validation("application deadline has passed")
	}

	application := &model.Application{
		InternshipID: internship.ID,
		StudentID:    actor.ID,
		Status:       model.ApplicationStatusPending,
		CoverLetter:  coverLetter,
		AppliedAt:    now,
	}
	if err := authz.Check(actor, authz.ApplicationCreate, authz.Resource{Internship: internship, Application: application}); err != nil {
		return nil, err
	}

	existing, err := e.store.Applications.Count(ctx, model.ApplicationFilter{
		InternshipID: &internship.ID,
		StudentID:    &actor.ID,
	})
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, apperr.Validation("you have already applied to this internship")
	}

	if err := e.store.Applications.Create(ctx, application); err != nil {
		return nil, err
	}

	e.log.WithFields(logrus.Fields{
		"application_id": application.ID,
		"internship_id":  internship.ID,
		"student_id":     actor.ID,
	}).Info("application submitted")
	return application, nil
}

// ReviewApplication moves an application to target on behalf of the
// internship's employer or an admin. Accepting a student makes them an
// active member of the internship. If the review is stored but the
// membership is not, the reviewed application is returned together with
// an Internal error.
func (e *Engine) ReviewApplication(ctx context.Context, actor identity.Actor, applicationID uuid.UUID, target model.ApplicationStatus, notes *string) (*model.Application, error) {
	if !target.Valid() {
		return nil, apperr.Validation(fmt.Sprintf("unknown application status %q", target))
	}

	application, err := e.store.Applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	internship, err := e.store.Internships.GetByID(ctx, application.InternshipID)
	if err != nil {
		return nil, err
	}

	if err := authz.Check(actor, authz.ApplicationReview, authz.Resource{Internship: internship, Application: application}); err != nil {
		return nil, err
	}
	from := application.Status
	if !ApplicationTransitionAllowed(from, target) {
		return nil, apperr.InvalidTransition(string(from), string(target))
	}

	now := e.now()
	review := model.ApplicationReview{
		Status:     target,
		ReviewedBy: actor.ID,
		ReviewedAt: now,
		Notes:      notes,
	}
	if err := e.written("application", e.store.Applications.UpdateReviewIf(ctx, application.ID, from, review)); err != nil {
		return nil, err
	}
	review.Apply(application)
	e.metrics.RecordTransition("application", string(from), string(target))

	log := e.log.WithFields(logrus.Fields{
		"application_id": application.ID,
		"reviewer_id":    actor.ID,
		"from":           from,
		"to":             target,
	})
	log.Info("application reviewed")

	if target == model.ApplicationStatusAccepted {
		membership := &model.Membership{
			InternshipID: application.InternshipID,
			StudentID:    application.StudentID,
			Status:       model.MembershipStatusActive,
			JoinedAt:     now,
		}
		if err := e.store.Memberships.Ensure(ctx, membership); err != nil {
			log.WithError(err).Error("accepted application has no membership")
			return application, apperr.Internal("application accepted but membership was not recorded", err)
		}
	}

	return application, nil
}

func (e *Engine) GetApplication(ctx context.Context, actor identity.Actor, applicationID uuid.UUID) (*model.Application, error) {
	application, err := e.store.Applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	internship, err := e.store.Internships.GetByID(ctx, application.InternshipID)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(actor, authz.ApplicationRead, authz.Resource{Internship: internship, Application: application}); err != nil {
		return nil, err
	}
	return application, nil
}

// ListApplicationsForInternship returns every application on the
// internship, newest first. Only its employer and admins may list them.
func (e *Engine) ListApplicationsForInternship(ctx context.Context, actor identity.Actor, internshipID uuid.UUID) ([]model.Application, error) {
	internship, err := e.store.Internships.GetByID(ctx, internshipID)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(actor, authz.ApplicationRead, authz.Resource{Internship: internship}); err != nil {
		return nil, err
	}
	return e.store.Applications.Find(ctx, model.ApplicationFilter{InternshipID: &internship.ID})
}

func (e *Engine) ListMyApplications(ctx context.Context, actor identity.Actor) ([]model.Application, error) {
	return e.store.Applications.Find(ctx, model.ApplicationFilter{StudentID: &actor.ID})
}
