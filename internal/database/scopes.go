package database

import "gorm.io/gorm"

// Paginate applies an offset/limit window to a list query. A limit of
// zero or less leaves the query unwindowed and returns the full set.
func Paginate(offset, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if limit <= 0 {
			return db
		}
		return db.Offset(offset).Limit(limit)
	}
}
