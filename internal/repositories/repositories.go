package repositories

import (
	"errors"
	"strconv"

	"github.com/desertthunder/rentx/internal/models"
	"github.com/mattn/go-sqlite3"
)

// isUniqueViolation reports whether err is a SQLite UNIQUE or PRIMARY KEY constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// rowID converts an external [models.ID] to an integer key. Non-numeric IDs never match a row.
func rowID(id models.ID) (int64, bool) {
	n, err := strconv.ParseInt(id.String(), 10, 64)
	return n, err == nil
}

func toID(n int64) models.ID {
	return models.ID(strconv.FormatInt(n, 10))
}
