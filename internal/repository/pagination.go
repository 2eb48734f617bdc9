package repository

import "gorm.io/gorm"

// Page is an offset window over an ordered result set. A zero Limit means all rows.
type Page struct {
	Offset int
	Limit  int
}

func paginate(p Page) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.Limit <= 0 {
			return db
		}
		return db.Offset(p.Offset).Limit(p.Limit)
	}
}
