package repository

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// TxManager implements domain.Transactor on a GORM connection. Repository
// calls made inside InTx resolve the transaction handle from the context, so
// they all join the same database transaction; row locks taken inside are
// held until InTx returns.
type TxManager struct {
	db *gorm.DB
}

// NewTxManager creates a TxManager.
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// InTx runs fn inside a database transaction. Any error rolls back.
func (m *TxManager) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFrom resolves the active transaction from the context, falling back to
// the base connection.
func dbFrom(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
