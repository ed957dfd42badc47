package model

import (
	"time"

	"github.com/google/uuid"
)

type MembershipStatus string

const (
	MembershipStatusActive    MembershipStatus = "active"
	MembershipStatusCompleted MembershipStatus = "completed"
	MembershipStatusWithdrawn MembershipStatus = "withdrawn"
)

// Membership links an accepted student to an internship.
type Membership struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	InternshipID uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_internship_student"`
	StudentID    uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_memberships_internship_student"`
	Status       MembershipStatus `gorm:"type:text;not null"`
	JoinedAt     time.Time        `gorm:"not null"`
}

func (Membership) TableName() string {
	return "internship_memberships"
}
