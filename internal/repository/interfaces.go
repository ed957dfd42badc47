package repository

import (
	"context"
	"time"

	"internhub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The interfaces below are the persistence boundary of the lifecycle core.
// GetByID returns an apperr NotFound error for missing rows, and the
// conditional updates return apperr Conflict when the expected state no
// longer holds. UpdateDetailsIf compares updated_at, so any other write to
// the row in between makes it lose.

type ProfileRepositoryInterface interface {
	Create(ctx context.Context, profile *model.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	FindByEmail(ctx context.Context, email string) (*model.Profile, error)
	UpdateDetailsIf(ctx context.Context, id uuid.UUID, expected time.Time, details model.ProfileDetails) error
}

type InternshipRepositoryInterface interface {
	Create(ctx context.Context, internship *model.Internship) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Internship, error)
	Find(ctx context.Context, filter model.InternshipFilter) ([]model.Internship, error)
	Count(ctx context.Context, filter model.InternshipFilter) (int64, error)
	CountByStatus(ctx context.Context, employerID uuid.UUID) (map[model.InternshipStatus]int64, error)
	UpdateStatusIf(ctx context.Context, id uuid.UUID, expected, next model.InternshipStatus) error
	UpdateDetailsIf(ctx context.Context, id uuid.UUID, expected time.Time, details model.InternshipDetails) error
}

type ApplicationRepositoryInterface interface {
	Create(ctx context.Context, application *model.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Application, error)
	Find(ctx context.Context, filter model.ApplicationFilter) ([]model.Application, error)
	Count(ctx context.Context, filter model.ApplicationFilter) (int64, error)
	UpdateReviewIf(ctx context.Context, id uuid.UUID, expected model.ApplicationStatus, review model.ApplicationReview) error
}

type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	Find(ctx context.Context, filter model.TaskFilter) ([]model.Task, error)
	Count(ctx context.Context, filter model.TaskFilter) (int64, error)
	UpdateStateIf(ctx context.Context, id uuid.UUID, expected, next model.TaskState) error
}

type MembershipRepositoryInterface interface {
	// Ensure creates the membership or reactivates an existing one for the
	// same internship and student.
	Ensure(ctx context.Context, membership *model.Membership) error
	Find(ctx context.Context, filter model.MembershipFilter) ([]model.Membership, error)
	Count(ctx context.Context, filter model.MembershipFilter) (int64, error)
}

var (
	_ ProfileRepositoryInterface     = (*ProfileRepository)(nil)
	_ InternshipRepositoryInterface  = (*InternshipRepository)(nil)
	_ ApplicationRepositoryInterface = (*ApplicationRepository)(nil)
	_ TaskRepositoryInterface        = (*TaskRepository)(nil)
	_ MembershipRepositoryInterface  = (*MembershipRepository)(nil)
)

// Store groups the repositories handed to the lifecycle engine and the
// dashboard service.
type Store struct {
	Profiles     ProfileRepositoryInterface
	Internships  InternshipRepositoryInterface
	Applications ApplicationRepositoryInterface
	Tasks        TaskRepositoryInterface
	Memberships  MembershipRepositoryInterface
}

func NewStore(db *gorm.DB) Store {
	return Store{
		Profiles:     NewProfileRepository(db),
		Internships:  NewInternshipRepository(db),
		Applications: NewApplicationRepository(db),
		Tasks:        NewTaskRepository(db),
		Memberships:  NewMembershipRepository(db),
	}
}
