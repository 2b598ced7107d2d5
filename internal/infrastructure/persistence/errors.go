package persistence

import (
	"errors"
	"strings"

	"github.com/erp/checkout/internal/domain/shared"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err came from a unique constraint.
// gorm translates the common cases when TranslateError is set; the driver
// checks cover handles opened without it.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// translateNotFound maps gorm.ErrRecordNotFound to shared.ErrNotFound
func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// translateWriteError maps unique violations to shared.ErrAlreadyExists
func translateWriteError(err error) error {
	if isUniqueViolation(err) {
		return shared.ErrAlreadyExists
	}
	return err
}
