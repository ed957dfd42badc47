package lifecycle_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"internhub/internal/identity"
	"internhub/internal/lifecycle"
	"internhub/internal/logging"
	"internhub/internal/model"
	"internhub/internal/repository"
	"internhub/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	ctx    context.Context
	repos  repository.Store
	engine *lifecycle.Engine

	employer      identity.Actor
	otherEmployer identity.Actor
	student       identity.Actor
	otherStudent  identity.Actor
	admin         identity.Actor

	internship *model.Internship
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		ctx:   context.Background(),
		repos: memory.New().Repositories(),
	}
	f.engine = f.newEngine(f.repos)

	f.employer = f.profile(t, model.RoleEmployer)
	f.otherEmployer = f.profile(t, model.RoleEmployer)
	f.student = f.profile(t, model.RoleStudent)
	f.otherStudent = f.profile(t, model.RoleStudent)
	f.admin = f.profile(t, model.RoleAdmin)

	f.internship = f.postInternship(t, f.employer, model.InternshipStatusPublished, date(2024, 2, 1))
	return f
}

func (f *fixture) newEngine(repos repository.Store) *lifecycle.Engine {
	return lifecycle.New(repos,
		lifecycle.WithClock(func() time.Time { return fixedNow }),
		lifecycle.WithLogger(logging.Discard()),
	)
}

func (f *fixture) profile(t *testing.T, role model.Role) identity.Actor {
	t.Helper()
	p := &model.Profile{
		Email:    fmt.Sprintf("%s-%s@example.test", role, uuid.NewString()),
		FullName: string(role),
		Role:     role,
	}
	require.NoError(t, f.repos.Profiles.Create(f.ctx, p))
	return identity.Actor{ID: p.ID, Role: p.Role}
}

func (f *fixture) postInternship(t *testing.T, owner identity.Actor, status model.InternshipStatus, deadline time.Time) *model.Internship {
	t.Helper()
	internship := &model.Internship{
		EmployerID:          owner.ID,
		Title:               "Backend intern",
		Description:         "Build APIs in Go",
		Status:              status,
		Vacancies:           2,
		ApplicationDeadline: deadline,
		StartDate:           deadline.AddDate(0, 0, 14),
		EndDate:             deadline.AddDate(0, 3, 0),
		SkillsRequired:      []string{"go", "sql"},
		CreatedAt:           fixedNow,
	}
	require.NoError(t, f.repos.Internships.Create(f.ctx, internship))
	return internship
}

// application stores an application directly in the given state.
func (f *fixture) application(t *testing.T, student identity.Actor, status model.ApplicationStatus) *model.Application {
	t.Helper()
	application := &model.Application{
		InternshipID: f.internship.ID,
		StudentID:    student.ID,
		Status:       status,
		AppliedAt:    fixedNow.Add(-time.Hour),
	}
	if status != model.ApplicationStatusPending {
		reviewer := f.employer.ID
		reviewedAt := fixedNow.Add(-time.Minute)
		application.ReviewedBy = &reviewer
		application.ReviewedAt = &reviewedAt
	}
	require.NoError(t, f.repos.Applications.Create(f.ctx, application))
	return application
}

// enrol accepts student into the fixture internship through the engine.
func (f *fixture) enrol(t *testing.T, student identity.Actor) {
	t.Helper()
	application, err := f.engine.SubmitApplication(f.ctx, student, f.internship.ID, nil)
	require.NoError(t, err)
	_, err = f.engine.ReviewApplication(f.ctx, f.employer, application.ID, model.ApplicationStatusShortlisted, nil)
	require.NoError(t, err)
	_, err = f.engine.ReviewApplication(f.ctx, f.employer, application.ID, model.ApplicationStatusAccepted, nil)
	require.NoError(t, err)
}

// task stores a task for the fixture student directly in the given state.
func (f *fixture) task(t *testing.T, status model.TaskStatus, progress int) *model.Task {
	t.Helper()
	task := &model.Task{
		InternshipID:       f.internship.ID,
		CreatedBy:          f.employer.ID,
		AssignedTo:         f.student.ID,
		Title:              "Write the onboarding guide",
		Status:             status,
		Priority:           model.TaskPriorityMedium,
		ProgressPercentage: progress,
		CreatedAt:          fixedNow,
	}
	require.NoError(t, f.repos.Tasks.Create(f.ctx, task))
	return task
}
