package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Role string

const (
	RoleStudent  Role = "student"
	RoleEmployer Role = "employer"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleEmployer, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole normalizes s and reports whether it names one of the three roles.
func ParseRole(s string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	return role, role.Valid()
}

type Profile struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Email          string         `gorm:"uniqueIndex;not null"`
	HashedPassword string         `gorm:"not null"`
	FullName       string         `gorm:"not null"`
	Role           Role           `gorm:"type:text;not null"`
	CompanyName    *string
	CollegeName    *string
	Skills         pq.StringArray `gorm:"type:text[]"`
	Bio            *string
	Location       *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProfileDetails is the set of columns a profile edit writes. Email, role and
// password are not editable.
type ProfileDetails struct {
	FullName    string
	CompanyName *string
	CollegeName *string
	Skills      pq.StringArray
	Bio         *string
	Location    *string
	UpdatedAt   time.Time
}

func (p *Profile) Details() ProfileDetails {
	return ProfileDetails{
		FullName:    p.FullName,
		CompanyName: p.CompanyName,
		CollegeName: p.CollegeName,
		Skills:      p.Skills,
		Bio:         p.Bio,
		Location:    p.Location,
		UpdatedAt:   p.UpdatedAt,
	}
}

// Apply copies the details onto p.
func (d ProfileDetails) Apply(p *Profile) {
	p.FullName = d.FullName
	p.CompanyName = d.CompanyName
	p.CollegeName = d.CollegeName
	p.Skills = d.Skills
	p.Bio = d.Bio
	p.Location = d.Location
	p.UpdatedAt = d.UpdatedAt
}
