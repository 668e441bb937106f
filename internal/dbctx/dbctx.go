package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// New returns a Context with no open transaction.
func New(ctx context.Context) Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return Context{Ctx: ctx}
}

// DB returns the transaction when one is open, otherwise fallback, bound
// to the request context in both cases.
func (c Context) DB(fallback *gorm.DB) *gorm.DB {
	ctx := c.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if c.Tx != nil {
		return c.Tx.WithContext(ctx)
	}
	return fallback.WithContext(ctx)
}

// InTx reports whether a transaction is attached.
func (c Context) InTx() bool {
	return c.Tx != nil
}

// Transaction runs fn inside a transaction. If c already carries one, fn
// joins it and the outer caller owns commit and rollback.
func Transaction(c Context, db *gorm.DB, fn func(Context) error) error {
	if c.Tx != nil {
		return fn(c)
	}
	return c.DB(db).Transaction(func(tx *gorm.DB) error {
		return fn(Context{Ctx: c.Ctx, Tx: tx})
	})
}
