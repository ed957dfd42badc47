package model

import (
	"time"

	"github.com/google/uuid"
)

type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
	ApplicationStatusAccepted    ApplicationStatus = "accepted"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusShortlisted, ApplicationStatusRejected, ApplicationStatusAccepted:
		return true
	default:
		return false
	}
}

type Application struct {
	ID           uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	InternshipID uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_applications_internship_student"`
	StudentID    uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_applications_internship_student"`
	Status       ApplicationStatus `gorm:"type:text;not null"`
	CoverLetter  *string
	AppliedAt    time.Time  `gorm:"not null"`
	ReviewedBy   *uuid.UUID `gorm:"type:uuid"`
	ReviewedAt   *time.Time
	Notes        *string
}

// ApplicationReview is the set of columns a review writes.
type ApplicationReview struct {
	Status     ApplicationStatus
	ReviewedBy uuid.UUID
	ReviewedAt time.Time
	Notes      *string
}

// Apply copies the review onto a.
func (r ApplicationReview) Apply(a *Application) {
	reviewer := r.ReviewedBy
	reviewedAt := r.ReviewedAt
	a.Status = r.Status
	a.ReviewedBy = &reviewer
	a.ReviewedAt = &reviewedAt
	a.Notes = r.Notes
}
