package model

import (
	"time"

	"github.com/google/uuid"
)

// Filters are the predicates repositories accept. Nil pointers and empty
// slices mean "no constraint"; all set fields are ANDed.

type InternshipFilter struct {
	EmployerID        *uuid.UUID
	Statuses          []InternshipStatus
	DeadlineOnOrAfter *time.Time
	// Search matches title, description, the employer's company name or any
	// required skill, case-insensitively. It is a plain substring.
	Search string
	// Skills matches internships requiring at least one of the listed
	// skills. Values are compared exactly, so callers pass normalized skills.
	Skills      []string
	NewestFirst bool
	Limit       int
}

type ApplicationFilter struct {
	InternshipID *uuid.UUID
	StudentID    *uuid.UUID
	// EmployerID restricts to applications on internships the employer owns.
	EmployerID *uuid.UUID
	Statuses   []ApplicationStatus
}

type TaskOrder int

const (
	// TaskOrderCreated sorts by creation time, oldest first.
	TaskOrderCreated TaskOrder = iota
	// TaskOrderDueSoonest sorts by due date ascending with undated tasks last,
	// then by creation time.
	TaskOrderDueSoonest
)

type TaskFilter struct {
	InternshipID *uuid.UUID
	AssignedTo   *uuid.UUID
	CreatedBy    *uuid.UUID
	Statuses     []TaskStatus
	Order        TaskOrder
	Limit        int
}

type MembershipFilter struct {
	InternshipID *uuid.UUID
	StudentID    *uuid.UUID
	// EmployerID restricts to memberships on internships the employer owns.
	EmployerID *uuid.UUID
	Statuses   []MembershipStatus
}
