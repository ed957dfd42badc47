package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"internhub/internal/apperr"
	"internhub/internal/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Profiles ---------------------------------------------------------------------

type profileStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID]record[model.Profile]
}

func (s *profileStore) Create(_ context.Context, profile *model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ensureID(&profile.ID)
	if _, exists := s.items[profile.ID]; exists {
		return apperr.Conflict("profile already exists")
	}
	profile.Email = strings.ToLower(profile.Email)
	for _, r := range s.items {
		if r.row.Email == profile.Email {
			return apperr.Conflict("profile already exists")
		}
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now()
	}
	profile.UpdatedAt = profile.CreatedAt

	s.items[profile.ID] = record[model.Profile]{row: cloneProfile(*profile), seq: nextSeq()}
	return nil
}

func (s *profileStore) GetByID(_ context.Context, id uuid.UUID) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.items[id]
	if !ok {
		return nil, apperr.NotFound("profile not found")
	}
	profile := cloneProfile(r.row)
	return &profile, nil
}

func (s *profileStore) FindByEmail(_ context.Context, email string) (*model.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(email)
	for _, r := range s.items {
		if r.row.Email == email {
			profile := cloneProfile(r.row)
			return &profile, nil
		}
	}
	return nil, nil
}

func (s *profileStore) UpdateDetailsIf(_ context.Context, id uuid.UUID, expected time.Time, details model.ProfileDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.items[id]
	if !ok {
		return apperr.NotFound("profile not found")
	}
	if !r.row.UpdatedAt.Equal(expected) {
		return apperr.Conflict("profile was modified concurrently")
	}
	details.Apply(&r.row)
	r.row = cloneProfile(r.row)
	s.items[id] = r
	return nil
}

// companyNames maps employer ids to their lower-cased company names.
func (s *profileStore) companyNames() map[uuid.UUID]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make(map[uuid.UUID]string)
	for id, r := range s.items {
		if r.row.CompanyName != nil {
			names[id] = strings.ToLower(*r.row.CompanyName)
		}
	}
	return names
}

func cloneProfile(p model.Profile) model.Profile {
	p.Skills = cloneStrings(p.Skills)
	return p
}

// Internships ------------------------------------------------------------------

type internshipStore struct {
	mu       sync.RWMutex
	items    map[uuid.UUID]record[model.Internship]
	profiles *profileStore
}

func (s *internshipStore) Create(_ context.Context, internship *model.Internship) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ensureID(&internship.ID)
	if _, exists := s.items[internship.ID]; exists {
		return apperr.Conflict("internship already exists")
	}
	if internship.CreatedAt.IsZero() {
		internship.CreatedAt = now()
	}
	internship.UpdatedAt = internship.CreatedAt

	s.items[internship.ID] = record[model.Internship]{row: cloneInternship(*internship), seq: nextSeq()}
	return nil
}

func (s *internshipStore) GetByID(_ context.Context, id uuid.UUID) (*model.Internship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.items[id]
	if !ok {
		return nil, apperr.NotFound("internship not found")
	}
	internship := cloneInternship(r.row)
	return &internship, nil
}

func (s *internshipStore) Find(_ context.Context, filter model.InternshipFilter) ([]model.Internship, error) {
	companies := s.companiesFor(filter)
	s.mu.RLock()
	matched := s.matchLocked(filter, companies)
	s.mu.RUnlock()

	rows := sortRecords(matched, func(a, b model.Internship) int {
		if filter.NewestFirst {
			if c := compareTime(b.CreatedAt, a.CreatedAt); c != 0 {
				return c
			}
			return strings.Compare(b.ID.String(), a.ID.String())
		}
		return compareTime(a.CreatedAt, b.CreatedAt)
	})
	return limit(rows, filter.Limit), nil
}

func (s *internshipStore) Count(_ context.Context, filter model.InternshipFilter) (int64, error) {
	companies := s.companiesFor(filter)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.matchLocked(filter, companies))), nil
}

// companiesFor snapshots company names before the internship lock is taken;
// only a search needs them.
func (s *internshipStore) companiesFor(filter model.InternshipFilter) map[uuid.UUID]string {
	if filter.Search == "" || s.profiles == nil {
		return nil
	}
	return s.profiles.companyNames()
}

func (s *internshipStore) CountByStatus(_ context.Context, employerID uuid.UUID) (map[model.InternshipStatus]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[model.InternshipStatus]int64)
	for _, r := range s.items {
		if r.row.EmployerID == employerID {
			counts[r.row.Status]++
		}
	}
	return counts, nil
}

func (s *internshipStore) UpdateStatusIf(_ context.Context, id uuid.UUID, expected, next model.InternshipStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.items[id]
	if !ok {
		return apperr.NotFound("internship not found")
	}
	if r.row.Status != expected {
		return apperr.Conflict("internship was modified concurrently")
	}
	r.row.Status = next
	r.row.UpdatedAt = now()
	s.items[id] = r
	return nil
}

func (s *internshipStore) UpdateDetailsIf(_ context.Context, id uuid.UUID, expected time.Time, details model.InternshipDetails) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.items[id]
	if !ok {
		return apperr.NotFound("internship not found")
	}
	if !r.row.UpdatedAt.Equal(expected) || r.row.Status == model.InternshipStatusClosed {
		return apperr.Conflict("internship was modified concurrently")
	}
	details.Apply(&r.row)
	r.row = cloneInternship(r.row)
	s.items[id] = r
	return nil
}

// ownedBy returns the ids of the employer's internships.
func (s *internshipStore) ownedBy(employerID uuid.UUID) map[uuid.UUID]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owned := make(map[uuid.UUID]bool)
	for id, r := range s.items {
		if r.row.EmployerID == employerID {
			owned[id] = true
		}
	}
	return owned
}

func (s *internshipStore) matchLocked(filter model.InternshipFilter, companies map[uuid.UUID]string) []record[model.Internship] {
	var matched []record[model.Internship]
	search := strings.ToLower(filter.Search)
	for _, r := range s.items {
		i := r.row
		if filter.EmployerID != nil && i.EmployerID != *filter.EmployerID {
			continue
		}
		if !contains(filter.Statuses, i.Status) {
			continue
		}
		if filter.DeadlineOnOrAfter != nil && model.StartOfDay(i.ApplicationDeadline).Before(model.StartOfDay(*filter.DeadlineOnOrAfter)) {
			continue
		}
		if search != "" && !matchesSearch(i, companies[i.EmployerID], search) {
			continue
		}
		if len(filter.Skills) > 0 && !overlaps(i.SkillsRequired, filter.Skills) {
			continue
		}
		r.row = cloneInternship(i)
		matched = append(matched, r)
	}
	return matched
}

func matchesSearch(i model.Internship, company, search string) bool {
	if strings.Contains(strings.ToLower(i.Title), search) ||
		strings.Contains(strings.ToLower(i.Description), search) ||
		strings.Contains(company, search) {
		return true
	}
	for _, skill := range i.SkillsRequired {
		if strings.Contains(strings.ToLower(skill), search) {
			return true
		}
	}
	return false
}

func cloneInternship(i model.Internship) model.Internship {
	i.SkillsRequired = cloneStrings(i.SkillsRequired)
	return i
}

// Applications -----------------------------------------------------------------

type applicationStore struct {
	mu          sync.RWMutex
	items       map[uuid.UUID]record[model.Application]
	internships *internshipStore
}

func (s *applicationStore) Create(_ context.Context, application *model.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ensureID(&application.ID)
	for _, r := range s.items {
		if r.row.ID == application.ID ||
			(r.row.InternshipID == application.InternshipID && r.row.StudentID == application.StudentID) {
			return apperr.Conflict("application already exists")
		}
	}
	if application.AppliedAt.IsZero() {
		application.AppliedAt = now()
	}

	s.items[application.ID] = record[model.Application]{row: *application, seq: nextSeq()}
	return nil
}

func (s *applicationStore) GetByID(_ context.Context, id uuid.UUID) (*model.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.items[id]
	if !ok {
		return nil, apperr.NotFound("application not found")
	}
	application := r.row
	return &application, nil
}

func (s *applicationStore) Find(_ context.Context, filter model.ApplicationFilter) ([]model.Application, error) {
	matched := s.match(filter)
	return sortRecords(matched, func(a, b model.Application) int {
		return compareTime(b.AppliedAt, a.AppliedAt)
	}), nil
}

func (s *applicationStore) Count(_ context.Context, filter model.ApplicationFilter) (int64, error) {
	return int64(len(s.match(filter))), nil
}

func (s *applicationStore) UpdateReviewIf(_ context.Context, id uuid.UUID, expected model.ApplicationStatus, review model.ApplicationReview) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.items[id]
	if !ok {
		return apperr.NotFound("application not found")
	}
	if r.row.Status != expected {
		return apperr.Conflict("application was modified concurrently")
	}
	review.Apply(&r.row)
	s.items[id] = r
	return nil
}

func (s *applicationStore) match(filter model.ApplicationFilter) []record[model.Application] {
	var owned map[uuid.UUID]bool
	if filter.EmployerID != nil {
		owned = s.internships.ownedBy(*filter.EmployerID)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []record[model.Application]
	for _, r := range s.items {
		a := r.row
		if filter.InternshipID != nil && a.InternshipID != *filter.InternshipID {
			continue
		}
		if filter.StudentID != nil && a.StudentID != *filter.StudentID {
			continue
		}
		if owned != nil && !owned[a.InternshipID] {
			continue
		}
		if !contains(filter.Statuses, a.Status) {
			continue
		}
		matched = append(matched, r)
	}
	return matched
}

// Tasks ------------------------------------------------------------------------

type taskStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID]record[model.Task]
}

func (s *taskStore) Create(_ context.Context, task *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ensureID(&task.ID)
	if _, exists := s.items[task.ID]; exists {
		return apperr.Conflict("task already exists")
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now()
	}
	task.UpdatedAt = task.CreatedAt

	s.items[task.ID] = record[model.Task]{row: *task, seq: nextSeq()}
	return nil
}

func (s *taskStore) GetByID(_ context.Context, id uuid.UUID) (*model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.items[id]
	if !ok {
		return nil, apperr.NotFound("task not found")
	}
	task := r.row
	return &task, nil
}

func (s *taskStore) Find(_ context.Context, filter model.TaskFilter) ([]model.Task, error) {
	matched := s.match(filter)

	rows := sortRecords(matched, func(a, b model.Task) int {
		if filter.Order == model.TaskOrderDueSoonest {
			switch {
			case a.DueDate == nil && b.DueDate != nil:
				return 1
			case a.DueDate != nil && b.DueDate == nil:
				return -1
			case a.DueDate != nil && b.DueDate != nil:
				if c := compareTime(*a.DueDate, *b.DueDate); c != 0 {
					return c
				}
			}
		}
		return compareTime(a.CreatedAt, b.CreatedAt)
	})
	return limit(rows, filter.Limit), nil
}

func (s *taskStore) Count(_ context.Context, filter model.TaskFilter) (int64, error) {
	return int64(len(s.match(filter))), nil
}

func (s *taskStore) UpdateStateIf(_ context.Context, id uuid.UUID, expected, next model.TaskState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.items[id]
	if !ok {
		return apperr.NotFound("task not found")
	}
	if r.row.State() != expected {
		return apperr.Conflict("task was modified concurrently")
	}
	r.row.Status = next.Status
	r.row.ProgressPercentage = next.ProgressPercentage
	r.row.UpdatedAt = now()
	s.items[id] = r
	return nil
}

func (s *taskStore) match(filter model.TaskFilter) []record[model.Task] {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []record[model.Task]
	for _, r := range s.items {
		t := r.row
		if filter.InternshipID != nil && t.InternshipID != *filter.InternshipID {
			continue
		}
		if filter.AssignedTo != nil && t.AssignedTo != *filter.AssignedTo {
			continue
		}
		if filter.CreatedBy != nil && t.CreatedBy != *filter.CreatedBy {
			continue
		}
		if !contains(filter.Statuses, t.Status) {
			continue
		}
		matched = append(matched, r)
	}
	return matched
}

// Memberships ------------------------------------------------------------------

type membershipStore struct {
	mu          sync.RWMutex
	items       map[uuid.UUID]record[model.Membership]
	internships *internshipStore
}

func (s *membershipStore) Ensure(_ context.Context, membership *model.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, r := range s.items {
		if r.row.InternshipID == membership.InternshipID && r.row.StudentID == membership.StudentID {
			r.row.Status = membership.Status
			s.items[id] = r
			*membership = r.row
			return nil
		}
	}

	ensureID(&membership.ID)
	if membership.JoinedAt.IsZero() {
		membership.JoinedAt = now()
	}
	s.items[membership.ID] = record[model.Membership]{row: *membership, seq: nextSeq()}
	return nil
}

func (s *membershipStore) Find(_ context.Context, filter model.MembershipFilter) ([]model.Membership, error) {
	matched := s.match(filter)
	return sortRecords(matched, func(a, b model.Membership) int {
		return compareTime(a.JoinedAt, b.JoinedAt)
	}), nil
}

func (s *membershipStore) Count(_ context.Context, filter model.MembershipFilter) (int64, error) {
	return int64(len(s.match(filter))), nil
}

func (s *membershipStore) match(filter model.MembershipFilter) []record[model.Membership] {
	var owned map[uuid.UUID]bool
	if filter.EmployerID != nil {
		owned = s.internships.ownedBy(*filter.EmployerID)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []record[model.Membership]
	for _, r := range s.items {
		m := r.row
		if filter.InternshipID != nil && m.InternshipID != *filter.InternshipID {
			continue
		}
		if filter.StudentID != nil && m.StudentID != *filter.StudentID {
			continue
		}
		if owned != nil && !owned[m.InternshipID] {
			continue
		}
		if !contains(filter.Statuses, m.Status) {
			continue
		}
		matched = append(matched, r)
	}
	return matched
}

func cloneStrings(values pq.StringArray) pq.StringArray {
	if values == nil {
		return nil
	}
	out := make(pq.StringArray, len(values))
	copy(out, values)
	return out
}

// overlaps mirrors the text[] && operator: exact, case-sensitive matches.
func overlaps(have pq.StringArray, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
