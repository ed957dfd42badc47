package repository

import (
	"context"
	"errors"

	"internhub/internal/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// wrapError maps gorm errors onto the application taxonomy.
func wrapError(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.New(apperr.KindNotFound, entity+" not found", err)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.New(apperr.KindConflict, entity+" already exists", err)
	}
	return apperr.Internal("failed to access "+entity, err)
}

// conditionalUpdate applies changes to the row with the given id only while
// the extra where clause still holds. When no row is touched it tells a lost
// race (Conflict) apart from a missing row (NotFound).
func conditionalUpdate(ctx context.Context, db *gorm.DB, table interface{}, entity string, id uuid.UUID, where string, args []interface{}, changes map[string]interface{}) error {
	result := db.WithContext(ctx).Model(table).
		Where("id = ?", id).
		Where(where, args...).
		Updates(changes)
	if result.Error != nil {
		return wrapError(result.Error, entity)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(table).Where("id = ?", id).Count(&count).Error; err != nil {
		return wrapError(err, entity)
	}
	if count == 0 {
		return apperr.NotFound(entity + " not found")
	}
	return apperr.Conflict(entity + " was modified concurrently")
}
