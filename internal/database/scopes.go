package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yukikurage/dropoff-point-api/internal/utils"
)

// Paginate applies skip/limit pagination to a GORM query. Disabled
// pagination leaves the query untouched.
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !params.Enabled {
			return db
		}
		return db.Offset(params.Skip).Limit(params.Limit)
	}
}

// CreationOrder sorts rows of table by insertion order.
func CreationOrder(table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".created_at ASC").Order(table + ".id ASC")
	}
}

// ForUpdate locks the selected rows until the surrounding transaction ends.
// SQLite has no row locks and already serializes writers.
func ForUpdate(db *gorm.DB) *gorm.DB {
	switch db.Dialector.Name() {
	case "postgres", "mysql":
		return db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	default:
		return db
	}
}
