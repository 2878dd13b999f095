package repository

import (
	"errors"
	"regexp"

	"github.com/yemektaxi/backend/internal/db"
	"github.com/yemektaxi/backend/internal/domain"

	"github.com/go-sql-driver/mysql"
)

var duplicateKeyPattern = regexp.MustCompile(`for key '(?:[^.']+\.)?([^']+)'`)

// mapDuplicate turns a MySQL 1062 error into a *domain.DuplicateEntryError.
func mapDuplicate(err error) (error, bool) {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) || mysqlErr.Number != db.DuplicateEntry {
		return err, false
	}

	key := ""
	if m := duplicateKeyPattern.FindStringSubmatch(mysqlErr.Message); m != nil {
		key = m[1]
	}

	return &domain.DuplicateEntryError{Key: key}, true
}

func checkAffected(rows int64, err error) error {
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNoRowsAffected
	}
	return nil
}
