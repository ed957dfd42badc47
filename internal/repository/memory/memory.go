// Package memory is an in-memory implementation of the repository
// interfaces. Each collection has its own lock, so writes to different
// collections never wait on each other. It is safe for concurrent use and is
// intended for tests and local development.
package memory

import (
	"sort"
	"sync"
	"time"

	"internhub/internal/model"
	"internhub/internal/repository"

	"github.com/google/uuid"
)

type Store struct {
	profiles     *profileStore
	internships  *internshipStore
	applications *applicationStore
	tasks        *taskStore
	memberships  *membershipStore
}

var (
	_ repository.ProfileRepositoryInterface     = (*profileStore)(nil)
	_ repository.InternshipRepositoryInterface  = (*internshipStore)(nil)
	_ repository.ApplicationRepositoryInterface = (*applicationStore)(nil)
	_ repository.TaskRepositoryInterface        = (*taskStore)(nil)
	_ repository.MembershipRepositoryInterface  = (*membershipStore)(nil)
)

// New creates an empty store.
func New() *Store {
	profiles := &profileStore{items: make(map[uuid.UUID]record[model.Profile])}
	internships := &internshipStore{items: make(map[uuid.UUID]record[model.Internship]), profiles: profiles}
	return &Store{
		profiles:     profiles,
		internships:  internships,
		applications: &applicationStore{items: make(map[uuid.UUID]record[model.Application]), internships: internships},
		tasks:        &taskStore{items: make(map[uuid.UUID]record[model.Task])},
		memberships:  &membershipStore{items: make(map[uuid.UUID]record[model.Membership]), internships: internships},
	}
}

// Repositories exposes the store through the repository interfaces.
func (s *Store) Repositories() repository.Store {
	return repository.Store{
		Profiles:     s.profiles,
		Internships:  s.internships,
		Applications: s.applications,
		Tasks:        s.tasks,
		Memberships:  s.memberships,
	}
}

// record pairs a row with its insertion sequence, which breaks ordering ties
// the same way a serial column would.
type record[T any] struct {
	row T
	seq int64
}

type sequence struct {
	mu   sync.Mutex
	next int64
}

var seq sequence

func nextSeq() int64 {
	seq.mu.Lock()
	defer seq.mu.Unlock()
	seq.next++
	return seq.next
}

func now() time.Time {
	return time.Now().UTC()
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func sortRecords[T any](records []record[T], less func(a, b T) int) []T {
	sort.SliceStable(records, func(i, j int) bool {
		if c := less(records[i].row, records[j].row); c != 0 {
			return c < 0
		}
		return records[i].seq < records[j].seq
	})
	rows := make([]T, len(records))
	for i, r := range records {
		rows[i] = r.row
	}
	return rows
}

func limit[T any](rows []T, n int) []T {
	if n > 0 && len(rows) > n {
		return rows[:n]
	}
	return rows
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

func contains[T comparable](values []T, v T) bool {
	if len(values) == 0 {
		return true
	}
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
