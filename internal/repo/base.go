package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base carries the GORM handle the domain repositories (clients, leads,
// jobs, invoices, contractors) build on.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB binds the connection to ctx so cancellation propagates to queries.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}
