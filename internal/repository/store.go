// Package repository implements the purchase stores and read queries on sqlx.
package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"medibill/m/internal/purchase"
)

// Dialect captures the few SQL differences between sqlite and postgres.
type Dialect struct {
	Name string
	// LockClause is appended to row lookups that must hold the row for the
	// rest of the transaction. sqlite serialises whole transactions instead.
	LockClause string
}

var (
	SQLite   = Dialect{Name: "sqlite"}
	Postgres = Dialect{Name: "postgres", LockClause: " FOR UPDATE"}
)

// DialectFor maps a database/sql driver name to its Dialect.
func DialectFor(driverName string) Dialect {
	switch driverName {
	case "postgres", "pgx":
		return Postgres
	default:
		return SQLite
	}
}

// Store is the database-backed persistence collaborator.
type Store struct {
	db      *sqlx.DB
	dialect Dialect
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db, dialect: DialectFor(db.DriverName())}
}

// Execute implements purchase.UnitOfWork.
func (s *Store) Execute(ctx context.Context, fn func(repos purchase.Repositories) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&txRepositories{q: tx, dialect: s.dialect}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txRepositories hands out stores bound to one transaction.
type txRepositories struct {
	q       sqlx.ExtContext
	dialect Dialect
}

func (r *txRepositories) Medicines() purchase.MedicineStore {
	return &medicineRepo{q: r.q}
}

func (r *txRepositories) Batches() purchase.BatchStore {
	return &batchRepo{q: r.q, dialect: r.dialect}
}

func (r *txRepositories) Suppliers() purchase.SupplierStore {
	return &supplierRepo{q: r.q}
}

func (r *txRepositories) Purchases() purchase.PurchaseStore {
	return &purchaseRepo{q: r.q}
}

var (
	_ purchase.UnitOfWork   = (*Store)(nil)
	_ purchase.Repositories = (*txRepositories)(nil)
)

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
