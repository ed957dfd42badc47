package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type InternshipStatus string

const (
	InternshipStatusDraft     InternshipStatus = "draft"
	InternshipStatusPublished InternshipStatus = "published"
	InternshipStatusClosed    InternshipStatus = "closed"
)

func (s InternshipStatus) Valid() bool {
	switch s {
	case InternshipStatusDraft, InternshipStatusPublished, InternshipStatusClosed:
		return true
	default:
		return false
	}
}

type Internship struct {
	ID                  uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EmployerID          uuid.UUID        `gorm:"type:uuid;not null;index"`
	Title               string           `gorm:"not null"`
	Description         string
	Location            string
	Status              InternshipStatus `gorm:"type:text;not null"`
	Vacancies           int              `gorm:"not null"`
	ApplicationDeadline time.Time        `gorm:"type:date;not null"`
	StartDate           time.Time        `gorm:"type:date;not null"`
	EndDate             time.Time        `gorm:"type:date;not null"`
	SkillsRequired      pq.StringArray   `gorm:"type:text[]"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// InternshipDetails is the set of columns an internship edit writes. Owner
// and status change through their own paths.
type InternshipDetails struct {
	Title               string
	Description         string
	Location            string
	Vacancies           int
	ApplicationDeadline time.Time
	StartDate           time.Time
	EndDate             time.Time
	SkillsRequired      pq.StringArray
	UpdatedAt           time.Time
}

func (i *Internship) Details() InternshipDetails {
	return InternshipDetails{
		Title:               i.Title,
		Description:         i.Description,
		Location:            i.Location,
		Vacancies:           i.Vacancies,
		ApplicationDeadline: i.ApplicationDeadline,
		StartDate:           i.StartDate,
		EndDate:             i.EndDate,
		SkillsRequired:      i.SkillsRequired,
		UpdatedAt:           i.UpdatedAt,
	}
}

// Apply copies the details onto i.
func (d InternshipDetails) Apply(i *Internship) {
	i.Title = d.Title
	i.Description = d.Description
	i.Location = d.Location
	i.Vacancies = d.Vacancies
	i.ApplicationDeadline = d.ApplicationDeadline
	i.StartDate = d.StartDate
	i.EndDate = d.EndDate
	i.SkillsRequired = d.SkillsRequired
	i.UpdatedAt = d.UpdatedAt
}

// DeadlinePassed compares calendar days in UTC: an internship stays open for
// the whole day of its deadline.
func (i *Internship) DeadlinePassed(now time.Time) bool {
	return StartOfDay(now).After(StartOfDay(i.ApplicationDeadline))
}

// AcceptsApplications reports whether students may currently apply.
func (i *Internship) AcceptsApplications(now time.Time) bool {
	return i.Status == InternshipStatusPublished && !i.DeadlinePassed(now)
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
