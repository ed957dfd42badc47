package lifecycle

import "internhub/internal/model"

var applicationTransitions = map[model.ApplicationStatus][]model.ApplicationStatus{
	model.ApplicationStatusPending:     {model.ApplicationStatusShortlisted, model.ApplicationStatusRejected},
	model.ApplicationStatusShortlisted: {model.ApplicationStatusAccepted, model.ApplicationStatusRejected},
	model.ApplicationStatusAccepted:    {},
	model.ApplicationStatusRejected:    {},
}

// review -> in_progress is the only backward edge (revision requested).
var taskTransitions = map[model.TaskStatus][]model.TaskStatus{
	model.TaskStatusTodo:       {model.TaskStatusInProgress},
	model.TaskStatusInProgress: {model.TaskStatusReview},
	model.TaskStatusReview:     {model.TaskStatusDone, model.TaskStatusInProgress},
	model.TaskStatusDone:       {},
}

var internshipTransitions = map[model.InternshipStatus][]model.InternshipStatus{
	model.InternshipStatusDraft:     {model.InternshipStatusPublished, model.InternshipStatusClosed},
	model.InternshipStatusPublished: {model.InternshipStatusClosed},
	model.InternshipStatusClosed:    {},
}

func allowed[S comparable](table map[S][]S, from, to S) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}

func ApplicationTransitionAllowed(from, to model.ApplicationStatus) bool {
	return allowed(applicationTransitions, from, to)
}

func TaskTransitionAllowed(from, to model.TaskStatus) bool {
	return allowed(taskTransitions, from, to)
}

func InternshipTransitionAllowed(from, to model.InternshipStatus) bool {
	return allowed(internshipTransitions, from, to)
}
