// Package dashboard computes the read-only summaries shown to employers and
// students. Each figure comes from its own query; the queries run in
// parallel and a failed one degrades to zero instead of failing the page.
package dashboard

import (
	"context"
	"sort"
	"sync"
	"time"

	"internhub/internal/authz"
	"internhub/internal/identity"
	"internhub/internal/metrics"
	"internhub/internal/model"
	"internhub/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const listSize = 5

// UnknownInternship stands in for a title that could not be loaded.
const UnknownInternship = "Unknown"

type EmployerStats struct {
	TotalInternships    int64                            `json:"total_internships"`
	InternshipsByStatus map[model.InternshipStatus]int64 `json:"internships_by_status"`
	ActiveInterns       int64                            `json:"active_interns"`
	PendingApplications int64                            `json:"pending_applications"`
	CompletedTasks      int64                            `json:"completed_tasks"`
}

type InternshipSummary struct {
	ID               uuid.UUID              `json:"id"`
	Title            string                 `json:"title"`
	Status           model.InternshipStatus `json:"status"`
	CreatedAt        time.Time              `json:"created_at"`
	ApplicationCount int64                  `json:"application_count"`
}

type EmployerDashboard struct {
	Stats             EmployerStats       `json:"stats"`
	RecentInternships []InternshipSummary `json:"recent_internships"`
	// Degraded names the figures that fell back to zero.
	Degraded []string `json:"degraded,omitempty"`
}

type StudentStats struct {
	TotalApplications int64 `json:"total_applications"`
	ActiveInternships int64 `json:"active_internships"`
	PendingTasks      int64 `json:"pending_tasks"`
	CompletedTasks    int64 `json:"completed_tasks"`
}

type UpcomingTask struct {
	ID              uuid.UUID          `json:"id"`
	Title           string             `json:"title"`
	Status          model.TaskStatus   `json:"status"`
	Priority        model.TaskPriority `json:"priority"`
	DueDate         *time.Time         `json:"due_date"`
	InternshipID    uuid.UUID          `json:"internship_id"`
	InternshipTitle string             `json:"internship_title"`
	Overdue         bool               `json:"overdue"`
}

type StudentDashboard struct {
	Stats         StudentStats   `json:"stats"`
	UpcomingTasks []UpcomingTask `json:"upcoming_tasks"`
	Degraded      []string       `json:"degraded,omitempty"`
}

type Service struct {
	store   repository.Store
	clock   func() time.Time
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

func NewService(store repository.Store, clock func() time.Time, log logrus.FieldLogger, m *metrics.Metrics) *Service {
	if clock == nil {
		clock = time.Now
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{store: store, clock: clock, log: log, metrics: m}
}

// collector runs named sub-queries in parallel. A failing query is logged
// and recorded; it never cancels its siblings.
type collector struct {
	svc       *Service
	dashboard string
	actorID   uuid.UUID
	group     errgroup.Group

	mu       sync.Mutex
	degraded []string
}

func (s *Service) collect(dashboard string, actorID uuid.UUID) *collector {
	return &collector{svc: s, dashboard: dashboard, actorID: actorID}
}

func (c *collector) run(figure string, query func() error) {
	c.group.Go(func() error {
		if err := query(); err != nil {
			c.fail(figure, err)
		}
		return nil
	})
}

func (c *collector) fail(figure string, err error) {
	c.svc.log.WithFields(logrus.Fields{
		"dashboard": c.dashboard,
		"figure":    figure,
		"actor_id":  c.actorID,
	}).WithError(err).Warn("dashboard figure degraded")
	c.svc.metrics.RecordDegraded(c.dashboard, figure)

	c.mu.Lock()
	c.degraded = append(c.degraded, figure)
	c.mu.Unlock()
}

func (c *collector) wait() []string {
	_ = c.group.Wait()
	sort.Strings(c.degraded)
	return c.degraded
}

// GetEmployerDashboard summarizes the internships the actor owns.
func (s *Service) GetEmployerDashboard(ctx context.Context, actor identity.Actor) (*EmployerDashboard, error) {
	if err := authz.Check(actor, authz.DashboardEmployer, authz.Resource{}); err != nil {
		return nil, err
	}

	employerID := actor.ID
	result := &EmployerDashboard{
		Stats:             EmployerStats{InternshipsByStatus: map[model.InternshipStatus]int64{}},
		RecentInternships: []InternshipSummary{},
	}
	c := s.collect("employer", actor.ID)

	c.run("internships_by_status", func() error {
		counts, err := s.store.Internships.CountByStatus(ctx, employerID)
		if err != nil {
			return err
		}
		var total int64
		for _, n := range counts {
			total += n
		}
		result.Stats.InternshipsByStatus = counts
		result.Stats.TotalInternships = total
		return nil
	})
	c.run("active_interns", func() error {
		n, err := s.store.Memberships.Count(ctx, model.MembershipFilter{
			EmployerID: &employerID,
			Statuses:   []model.MembershipStatus{model.MembershipStatusActive},
		})
		if err == nil {
			result.Stats.ActiveInterns = n
		}
		return err
	})
	c.run("pending_applications", func() error {
		n, err := s.store.Applications.Count(ctx, model.ApplicationFilter{
			EmployerID: &employerID,
			Statuses:   []model.ApplicationStatus{model.ApplicationStatusPending},
		})
		if err == nil {
			result.Stats.PendingApplications = n
		}
		return err
	})
	c.run("completed_tasks", func() error {
		n, err := s.store.Tasks.Count(ctx, model.TaskFilter{
			CreatedBy: &employerID,
			Statuses:  []model.TaskStatus{model.TaskStatusDone},
		})
		if err == nil {
			result.Stats.CompletedTasks = n
		}
		return err
	})
	c.run("recent_internships", func() error {
		recent, err := s.recentInternships(ctx, c, employerID)
		if err != nil {
			return err
		}
		result.RecentInternships = recent
		return nil
	})

	result.Degraded = c.wait()
	return result, nil
}

// recentInternships loads the newest internships, then their application
// counts. A failed count degrades only that row.
func (s *Service) recentInternships(ctx context.Context, c *collector, employerID uuid.UUID) ([]InternshipSummary, error) {
	internships, err := s.store.Internships.Find(ctx, model.InternshipFilter{
		EmployerID:  &employerID,
		NewestFirst: true,
		Limit:       listSize,
	})
	if err != nil {
		return nil, err
	}

	summaries := make([]InternshipSummary, len(internships))
	var group errgroup.Group
	for i := range internships {
		i := i
		internship := internships[i]
		summaries[i] = InternshipSummary{
			ID:        internship.ID,
			Title:     internship.Title,
			Status:    internship.Status,
			CreatedAt: internship.CreatedAt,
		}
		group.Go(func() error {
			n, err := s.store.Applications.Count(ctx, model.ApplicationFilter{InternshipID: &internship.ID})
			if err != nil {
				c.fail("application_count", err)
				return nil
			}
			summaries[i].ApplicationCount = n
			return nil
		})
	}
	_ = group.Wait()
	return summaries, nil
}

// GetStudentDashboard summarizes the actor's applications and tasks.
func (s *Service) GetStudentDashboard(ctx context.Context, actor identity.Actor) (*StudentDashboard, error) {
	if err := authz.Check(actor, authz.DashboardStudent, authz.Resource{}); err != nil {
		return nil, err
	}

	studentID := actor.ID
	var stats StudentStats
	upcoming := []UpcomingTask{}
	c := s.collect("student", actor.ID)

	c.run("total_applications", func() error {
		n, err := s.store.Applications.Count(ctx, model.ApplicationFilter{StudentID: &studentID})
		if err == nil {
			stats.TotalApplications = n
		}
		return err
	})
	c.run("active_internships", func() error {
		n, err := s.store.Memberships.Count(ctx, model.MembershipFilter{
			StudentID: &studentID,
			Statuses:  []model.MembershipStatus{model.MembershipStatusActive},
		})
		if err == nil {
			stats.ActiveInternships = n
		}
		return err
	})
	c.run("pending_tasks", func() error {
		n, err := s.store.Tasks.Count(ctx, model.TaskFilter{
			AssignedTo: &studentID,
			Statuses:   model.OpenTaskStatuses,
		})
		if err == nil {
			stats.PendingTasks = n
		}
		return err
	})
	c.run("completed_tasks", func() error {
		n, err := s.store.Tasks.Count(ctx, model.TaskFilter{
			AssignedTo: &studentID,
			Statuses:   []model.TaskStatus{model.TaskStatusDone},
		})
		if err == nil {
			stats.CompletedTasks = n
		}
		return err
	})
	c.run("upcoming_tasks", func() error {
		tasks, err := s.upcomingTasks(ctx, c, studentID)
		if err == nil {
			upcoming = tasks
		}
		return err
	})

	degraded := c.wait()
	return &StudentDashboard{Stats: stats, UpcomingTasks: upcoming, Degraded: degraded}, nil
}

func (s *Service) upcomingTasks(ctx context.Context, c *collector, studentID uuid.UUID) ([]UpcomingTask, error) {
	tasks, err := s.store.Tasks.Find(ctx, model.TaskFilter{
		AssignedTo: &studentID,
		Statuses:   model.OpenTaskStatuses,
		Order:      model.TaskOrderDueSoonest,
		Limit:      listSize,
	})
	if err != nil {
		return nil, err
	}

	today := model.StartOfDay(s.clock())
	titles := make(map[uuid.UUID]string)
	upcoming := make([]UpcomingTask, 0, len(tasks))
	for _, task := range tasks {
		title, ok := titles[task.InternshipID]
		if !ok {
			title = UnknownInternship
			internship, err := s.store.Internships.GetByID(ctx, task.InternshipID)
			if err != nil {
				c.fail("internship_title", err)
			} else {
				title = internship.Title
			}
			titles[task.InternshipID] = title
		}

		upcoming = append(upcoming, UpcomingTask{
			ID:              task.ID,
			Title:           task.Title,
			Status:          task.Status,
			Priority:        task.Priority,
			DueDate:         task.DueDate,
			InternshipID:    task.InternshipID,
			InternshipTitle: title,
			Overdue:         task.DueDate != nil && model.StartOfDay(*task.DueDate).Before(today),
		})
	}
	return upcoming, nil
}
