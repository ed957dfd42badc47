// Package lifecycle owns the internship, application and task state
// machines. Every mutation is authorized by authz, validated against the
// transition tables, and written with a conditional update so a decision
// made on a stale read is rejected with a Conflict instead of overwriting a
// concurrent change.
package lifecycle

import (
	"context"
	"errors"
	"time"

	"internhub/internal/apperr"
	"internhub/internal/metrics"
	"internhub/internal/model"
	"internhub/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Clock is the engine's time source.
type Clock func() time.Time

type Engine struct {
	store   repository.Store
	clock   Clock
	log     logrus.FieldLogger
	metrics *metrics.Metrics
}

type Option func(*Engine)

func WithClock(clock Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

func New(store repository.Store, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		clock: time.Now,
		log:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) now() time.Time {
	return e.clock().UTC()
}

// bump returns the updated_at to write over previous. It always moves
// forward so a conditional write on updated_at cannot match twice.
func (e *Engine) bump(previous time.Time) time.Time {
	now := e.now()
	if !now.After(previous) {
		return previous.Add(time.Microsecond)
	}
	return now
}

func (e *Engine) isMember(ctx context.Context, internshipID, studentID uuid.UUID) (bool, error) {
	count, err := e.store.Memberships.Count(ctx, model.MembershipFilter{
		InternshipID: &internshipID,
		StudentID:    &studentID,
		Statuses:     []model.MembershipStatus{model.MembershipStatusActive},
	})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// written records a conditional write's outcome.
func (e *Engine) written(entity string, err error) error {
	if errors.Is(err, apperr.ErrConflict) {
		e.metrics.RecordConflict(entity)
		e.log.WithField("entity", entity).Warn("conditional update lost to a concurrent write")
	}
	return err
}
