package network

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/netinv-backend/internal/pkg/dbctx"
)

func txOr(dbc dbctx.Context, db *gorm.DB) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = db
	}
	return transaction.WithContext(dbc.Ctx)
}

// findOne returns (nil, nil) when the query matches nothing.
func findOne[T any](q *gorm.DB) (*T, error) {
	var out T
	res := q.Limit(1).Find(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &out, nil
}

func upsertRow[T any](q *gorm.DB, row *T, exists bool) error {
	q = q.Omit(clause.Associations)
	if exists {
		return q.Save(row).Error
	}
	return q.Create(row).Error
}
