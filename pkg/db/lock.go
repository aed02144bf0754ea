package db

import "gorm.io/gorm"

// ForUpdate returns the row-lock suffix for a locking read on the dialect
// behind conn. SQLite serializes writers at the database level and rejects
// the clause, so it gets an empty suffix.
func ForUpdate(conn *gorm.DB) string {
	if conn == nil || conn.Dialector == nil {
		return ""
	}
	switch conn.Dialector.Name() {
	case TypePostgres, TypeMySQL:
		return " FOR UPDATE"
	default:
		return ""
	}
}
