package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"internhub/internal/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type InternshipRepository struct {
	db *gorm.DB
}

func NewInternshipRepository(db *gorm.DB) *InternshipRepository {
	return &InternshipRepository{db: db}
}

func (r *InternshipRepository) Create(ctx context.Context, internship *model.Internship) error {
	return wrapError(r.db.WithContext(ctx).Create(internship).Error, "internship")
}

func (r *InternshipRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Internship, error) {
	var internship model.Internship
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&internship).Error; err != nil {
		return nil, wrapError(err, "internship")
	}
	return &internship, nil
}

func (r *InternshipRepository) Find(ctx context.Context, filter model.InternshipFilter) ([]model.Internship, error) {
	var internships []model.Internship
	query := applyInternshipFilter(r.db.WithContext(ctx).Model(&model.Internship{}), filter)
	if filter.NewestFirst {
		query = query.Order("created_at DESC").Order("id DESC")
	} else {
		query = query.Order("created_at ASC")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if err := query.Find(&internships).Error; err != nil {
		return nil, wrapError(err, "internship")
	}
	return internships, nil
}

func (r *InternshipRepository) Count(ctx context.Context, filter model.InternshipFilter) (int64, error) {
	var count int64
	err := applyInternshipFilter(r.db.WithContext(ctx).Model(&model.Internship{}), filter).Count(&count).Error
	return count, wrapError(err, "internship")
}

// CountByStatus groups the employer's internships by status. Statuses with no
// internships are absent from the map.
func (r *InternshipRepository) CountByStatus(ctx context.Context, employerID uuid.UUID) (map[model.InternshipStatus]int64, error) {
	var rows []struct {
		Status model.InternshipStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&model.Internship{}).
		Select("status, COUNT(*) AS count").
		Where("employer_id = ?", employerID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, wrapError(err, "internship")
	}

	counts := make(map[model.InternshipStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *InternshipRepository) UpdateStatusIf(ctx context.Context, id uuid.UUID, expected, next model.InternshipStatus) error {
	return conditionalUpdate(ctx, r.db, &model.Internship{}, "internship", id,
		"status = ?", []interface{}{expected},
		map[string]interface{}{"status": next},
	)
}

// UpdateDetailsIf writes the editable columns only while the row still has
// the expected updated_at and is not closed.
func (r *InternshipRepository) UpdateDetailsIf(ctx context.Context, id uuid.UUID, expected time.Time, details model.InternshipDetails) error {
	return conditionalUpdate(ctx, r.db, &model.Internship{}, "internship", id,
		"updated_at = ? AND status <> ?", []interface{}{expected, model.InternshipStatusClosed},
		map[string]interface{}{
			"title":                details.Title,
			"description":          details.Description,
			"location":             details.Location,
			"vacancies":            details.Vacancies,
			"application_deadline": details.ApplicationDeadline,
			"start_date":           details.StartDate,
			"end_date":             details.EndDate,
			"skills_required":      details.SkillsRequired,
			"updated_at":           details.UpdatedAt,
		},
	)
}

// searchClause matches the title, the description, the employer's company
// name or any required skill.
const searchClause = "(title ILIKE @pattern OR description ILIKE @pattern" +
	" OR EXISTS (SELECT 1 FROM profiles WHERE profiles.id = internships.employer_id AND profiles.company_name ILIKE @pattern)" +
	" OR EXISTS (SELECT 1 FROM unnest(internships.skills_required) AS skill WHERE skill ILIKE @pattern))"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s literally anywhere.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func applyInternshipFilter(query *gorm.DB, filter model.InternshipFilter) *gorm.DB {
	if filter.EmployerID != nil {
		query = query.Where("employer_id = ?", *filter.EmployerID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.DeadlineOnOrAfter != nil {
		query = query.Where("application_deadline >= ?", model.StartOfDay(*filter.DeadlineOnOrAfter))
	}
	if filter.Search != "" {
		pattern := containsPattern(filter.Search)
		query = query.Where(searchClause, sql.Named("pattern", pattern))
	}
	if len(filter.Skills) > 0 {
		query = query.Where("skills_required && ?", pq.StringArray(filter.Skills))
	}
	return query
}
