package sqlite

import (
	"database/sql"
	"strings"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// nullStr maps an empty string to NULL so optional foreign keys and
// optional text columns do not store empty strings.
func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func fromNull(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// requireAffected converts a zero-row update into notFound.
func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// modernc/sqlite surfaces constraint failures as plain error strings, so
// classification is textual.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
