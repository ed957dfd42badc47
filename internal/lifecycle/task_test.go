package lifecycle_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"internhub/internal/apperr"
	"internhub/internal/identity"
	"internhub/internal/lifecycle"
	"internhub/internal/model"
	"internhub/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskStatuses = []model.TaskStatus{
	model.TaskStatusTodo,
	model.TaskStatusInProgress,
	model.TaskStatusReview,
	model.TaskStatusDone,
}

func TestCreateTask(t *testing.T) {
	f := newFixture(t)
	f.enrol(t, f.student)
	due := date(2024, 2, 20)

	task, err := f.engine.CreateTask(f.ctx, f.employer, lifecycle.NewTask{
		InternshipID: f.internship.ID,
		AssignedTo:   f.student.ID,
		Title:        "  Set up the dev environment ",
		DueDate:      &due,
	})

	require.NoError(t, err)
	assert.Equal(t, "Set up the dev environment", task.Title)
	assert.Equal(t, model.TaskStatusTodo, task.Status)
	assert.Equal(t, model.TaskPriorityMedium, task.Priority)
	assert.Equal(t, 0, task.ProgressPercentage)
	assert.Equal(t, f.employer.ID, task.CreatedBy)

	stored, err := f.repos.Tasks.GetByID(f.ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, stored.ID)
}

func TestCreateTask_NonOwnerDenied(t *testing.T) {
	f := newFixture(t)
	f.enrol(t, f.student)

	for _, actor := range []identity.Actor{f.otherEmployer, f.student} {
		_, err := f.engine.CreateTask(f.ctx, actor, lifecycle.NewTask{
			InternshipID: f.internship.ID,
			AssignedTo:   f.student.ID,
			Title:        "Valid task",
		})
		assert.ErrorIs(t, err, apperr.ErrPermissionDenied, actor.Role)
	}

	count, err := f.repos.Tasks.Count(f.ctx, model.TaskFilter{InternshipID: &f.internship.ID})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateTask_AdminAllowed(t *testing.T) {
	f := newFixture(t)
	f.enrol(t, f.student)

	_, err := f.engine.CreateTask(f.ctx, f.admin, lifecycle.NewTask{
		InternshipID: f.internship.ID,
		AssignedTo:   f.student.ID,
		Title:        "Admin task",
	})
	assert.NoError(t, err)
}

func TestCreateTask_Validation(t *testing.T) {
	f := newFixture(t)
	f.enrol(t, f.student)

	otherInternship := f.postInternship(t, f.employer, model.InternshipStatusPublished, date(2024, 2, 1))
	foreignParent := &model.Task{
		InternshipID: otherInternship.ID,
		CreatedBy:    f.employer.ID,
		AssignedTo:   f.student.ID,
		Title:        "elsewhere",
		Status:       model.TaskStatusTodo,
		Priority:     model.TaskPriorityLow,
	}
	require.NoError(t, f.repos.Tasks.Create(f.ctx, foreignParent))

	missing := uuid.New()
	tests := []struct {
		name  string
		input lifecycle.NewTask
	}{
		{"empty title", lifecycle.NewTask{AssignedTo: f.student.ID, Title: "   "}},
		{"unknown priority", lifecycle.NewTask{AssignedTo: f.student.ID, Title: "t", Priority: "critical"}},
		{"assignee is not a member", lifecycle.NewTask{AssignedTo: f.otherStudent.ID, Title: "t"}},
		{"assignee is not a student", lifecycle.NewTask{AssignedTo: f.otherEmployer.ID, Title: "t"}},
		{"assignee does not exist", lifecycle.NewTask{AssignedTo: uuid.New(), Title: "t"}},
		{"parent in another internship", lifecycle.NewTask{AssignedTo: f.student.ID, Title: "t", ParentTaskID: &foreignParent.ID}},
		{"parent does not exist", lifecycle.NewTask{AssignedTo: f.student.ID, Title: "t", ParentTaskID: &missing}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.input.InternshipID = f.internship.ID
			_, err := f.engine.CreateTask(f.ctx, f.employer, tt.input)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestCreateTask_ParentChain(t *testing.T) {
	f := newFixture(t)
	f.enrol(t, f.student)

	root, err := f.engine.CreateTask(f.ctx, f.employer, lifecycle.NewTask{
		InternshipID: f.internship.ID,
		AssignedTo:   f.student.ID,
		Title:        "Ship the feature",
	})
	require.NoError(t, err)

	child, err := f.engine.CreateTask(f.ctx, f.employer, lifecycle.NewTask{
		InternshipID: f.internship.ID,
		AssignedTo:   f.student.ID,
		Title:        "Write the tests",
		ParentTaskID: &root.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, &root.ID, child.ParentTaskID)
}

func TestCreateTask_ParentCycle(t *testing.T) {
	f := newFixture(t)
	f.enrol(t, f.student)

	looped := &model.Task{
		ID:           uuid.New(),
		InternshipID: f.internship.ID,
		CreatedBy:    f.employer.ID,
		AssignedTo:   f.student.ID,
		Title:        "corrupt",
		Status:       model.TaskStatusTodo,
		Priority:     model.TaskPriorityLow,
	}
	looped.ParentTaskID = &looped.ID
	require.NoError(t, f.repos.Tasks.Create(f.ctx, looped))

	_, err := f.engine.CreateTask(f.ctx, f.employer, lifecycle.NewTask{
		InternshipID: f.internship.ID,
		AssignedTo:   f.student.ID,
		Title:        "t",
		ParentTaskID: &looped.ID,
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, "parent task chain contains a cycle", apperr.Message(err))
}

func TestTransitionTask_TransitionTable(t *testing.T) {
	for _, from := range taskStatuses {
		for _, to := range taskStatuses {
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				f := newFixture(t)
				task := f.task(t, from, 40)

				got, err := f.engine.TransitionTask(f.ctx, f.student, task.ID, to)

				stored, getErr := f.repos.Tasks.GetByID(f.ctx, task.ID)
				require.NoError(t, getErr)

				if lifecycle.TaskTransitionAllowed(from, to) {
					require.NoError(t, err)
					assert.Equal(t, to, got.Status)
					assert.Equal(t, to, stored.Status)
					return
				}
				assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
				assert.Equal(t, from, stored.Status)
			})
		}
	}
}

func TestTransitionTask_DoneForcesFullProgress(t *testing.T) {
	for _, progress := range []int{0, 40, 99, 100} {
		f := newFixture(t)
		task := f.task(t, model.TaskStatusReview, progress)

		done, err := f.engine.TransitionTask(f.ctx, f.employer, task.ID, model.TaskStatusDone)
		require.NoError(t, err)
		assert.Equal(t, 100, done.ProgressPercentage)

		stored, err := f.repos.Tasks.GetByID(f.ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, model.TaskStatusDone, stored.Status)
		assert.Equal(t, 100, stored.ProgressPercentage)
	}
}

func TestTransitionTask_RevisionKeepsProgress(t *testing.T) {
	f := newFixture(t)
	task := f.task(t, model.TaskStatusReview, 80)

	got, err := f.engine.TransitionTask(f.ctx, f.employer, task.ID, model.TaskStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusInProgress, got.Status)
	assert.Equal(t, 80, got.ProgressPercentage)
}

func TestTransitionTask_Permissions(t *testing.T) {
	f := newFixture(t)

	allowed := []identity.Actor{f.student, f.employer, f.admin}
	for _, actor := range allowed {
		task := f.task(t, model.TaskStatusTodo, 0)
		_, err := f.engine.TransitionTask(f.ctx, actor, task.ID, model.TaskStatusInProgress)
		assert.NoError(t, err, actor.Role)
	}

	denied := []identity.Actor{f.otherStudent, f.otherEmployer}
	for _, actor := range denied {
		task := f.task(t, model.TaskStatusTodo, 0)
		_, err := f.engine.TransitionTask(f.ctx, actor, task.ID, model.TaskStatusInProgress)
		assert.ErrorIs(t, err, apperr.ErrPermissionDenied, actor.Role)
	}
}

func TestTransitionTask_UnknownTask(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.TransitionTask(f.ctx, f.admin, uuid.New(), model.TaskStatusInProgress)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// barrierTasks holds every GetByID until all expected readers have read, so
// concurrent transitions all decide on the same snapshot.
type barrierTasks struct {
	repository.TaskRepositoryInterface
	readers sync.WaitGroup
}

func (b *barrierTasks) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	task, err := b.TaskRepositoryInterface.GetByID(ctx, id)
	b.readers.Done()
	b.readers.Wait()
	return task, err
}

func TestTransitionTask_ConcurrentCallsOneWins(t *testing.T) {
	f := newFixture(t)
	task := f.task(t, model.TaskStatusTodo, 0)

	barrier := &barrierTasks{TaskRepositoryInterface: f.repos.Tasks}
	barrier.readers.Add(2)
	repos := f.repos
	repos.Tasks = barrier
	engine := f.newEngine(repos)

	errs := make(chan error, 2)
	for _, actor := range []identity.Actor{f.student, f.employer} {
		go func(actor identity.Actor) {
			_, err := engine.TransitionTask(f.ctx, actor, task.ID, model.TaskStatusInProgress)
			errs <- err
		}(actor)
	}

	var succeeded, conflicted int
	for i := 0; i < 2; i++ {
		select {
		case err := <-errs:
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, apperr.ErrConflict):
				conflicted++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("transitions did not finish")
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicted)

	stored, err := f.repos.Tasks.GetByID(f.ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskStatusInProgress, stored.Status)
}

func TestUpdateProgress(t *testing.T) {
	f := newFixture(t)
	task := f.task(t, model.TaskStatusInProgress, 10)

	got, err := f.engine.UpdateProgress(f.ctx, f.student, task.ID, 55)
	require.NoError(t, err)
	assert.Equal(t, 55, got.ProgressPercentage)
	assert.Equal(t, model.TaskStatusInProgress, got.Status)

	stored, err := f.repos.Tasks.GetByID(f.ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 55, stored.ProgressPercentage)
}

func TestUpdateProgress_OutOfRangeRejected(t *testing.T) {
	f := newFixture(t)
	task := f.task(t, model.TaskStatusInProgress, 30)

	for _, pct := range []int{-1, 101, 250} {
		_, err := f.engine.UpdateProgress(f.ctx, f.student, task.ID, pct)
		assert.ErrorIs(t, err, apperr.ErrValidation, pct)
	}

	stored, err := f.repos.Tasks.GetByID(f.ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, stored.ProgressPercentage)
}

func TestUpdateProgress_Bounds(t *testing.T) {
	f := newFixture(t)
	task := f.task(t, model.TaskStatusTodo, 30)

	for _, pct := range []int{0, 100} {
		got, err := f.engine.UpdateProgress(f.ctx, f.student, task.ID, pct)
		require.NoError(t, err)
		assert.Equal(t, pct, got.ProgressPercentage)
	}
}

func TestUpdateProgress_DoneTaskFrozen(t *testing.T) {
	f := newFixture(t)
	task := f.task(t, model.TaskStatusDone, 100)

	_, err := f.engine.UpdateProgress(f.ctx, f.student, task.ID, 50)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
}

func TestUpdateProgress_OtherStudentDenied(t *testing.T) {
	f := newFixture(t)
	task := f.task(t, model.TaskStatusInProgress, 10)

	_, err := f.engine.UpdateProgress(f.ctx, f.otherStudent, task.ID, 50)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
}

func TestGetAndListTasks(t *testing.T) {
	f := newFixture(t)
	f.enrol(t, f.student)
	f.enrol(t, f.otherStudent)
	task := f.task(t, model.TaskStatusTodo, 0)

	for _, actor := range []identity.Actor{f.student, f.employer, f.admin, f.otherStudent} {
		got, err := f.engine.GetTask(f.ctx, actor, task.ID)
		require.NoError(t, err, actor.Role)
		assert.Equal(t, task.ID, got.ID)

		tasks, err := f.engine.ListTasksForInternship(f.ctx, actor, f.internship.ID)
		require.NoError(t, err, actor.Role)
		assert.Len(t, tasks, 1)
	}

	_, err := f.engine.GetTask(f.ctx, f.otherEmployer, task.ID)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	outsider := f.profile(t, model.RoleStudent)
	_, err = f.engine.ListTasksForInternship(f.ctx, outsider, f.internship.ID)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
}
