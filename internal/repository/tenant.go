package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/agentdesk/leads-api/internal/auth"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ApplyOwnerFilter scopes a query to the authenticated principal. Without a
// principal in ctx the query matches nothing, so a missing context can never
// widen access.
func ApplyOwnerFilter(ctx context.Context, query *gorm.DB) *gorm.DB {
	return ApplyOwnerFilterWithColumn(ctx, query, "owner_id")
}

// ApplyOwnerFilterWithColumn applies the owner filter using a specific column name
func ApplyOwnerFilterWithColumn(ctx context.Context, query *gorm.DB, columnName string) *gorm.DB {
	ownerID, ok := auth.OwnerID(ctx)
	if !ok {
		return query.Where("1 = 0")
	}
	return query.Where(columnName+" = ?", ownerID)
}

// IsUniqueViolation reports whether err is a unique constraint failure from
// postgres or sqlite
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsForeignKeyViolation reports whether err is a foreign key failure from
// postgres or sqlite, such as deleting a row that is still referenced
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503"
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// IsNotFound reports whether err means the row does not exist or is not visible
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
