package database

import (
	"time"

	"gorm.io/gorm"
)

// Limit caps the number of rows returned; non-positive values are ignored.
func Limit(n int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if n <= 0 {
			return db
		}
		return db.Limit(n)
	}
}

// Between restricts column to [from, to]. Either bound may be nil.
func Between(column string, from, to *time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if from != nil {
			db = db.Where(column+" >= ?", *from)
		}
		if to != nil {
			db = db.Where(column+" <= ?", *to)
		}
		return db
	}
}

// NullsLast orders by column ascending with NULL values after all others,
// then by the given tiebreak clauses. Scopes run when the statement is built,
// so every ORDER BY term of the query must go through this scope to keep its
// position.
func NullsLast(column string, tiebreaks ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Order("CASE WHEN " + column + " IS NULL THEN 1 ELSE 0 END, " + column + " ASC")
		for _, t := range tiebreaks {
			db = db.Order(t)
		}
		return db
	}
}
