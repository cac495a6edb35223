package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"medibill/m/domain"
)

const supplierColumns = `id, name, contact_number, email, address`

type supplierRepo struct {
	q sqlx.ExtContext
}

func (r *supplierRepo) FindSupplier(ctx context.Context, id int64) (*domain.Supplier, error) {
	var sup domain.Supplier
	err := sqlx.GetContext(ctx, r.q, &sup, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sup, nil
}

func (s *Store) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	suppliers := []domain.Supplier{}
	if err := s.db.SelectContext(ctx, &suppliers, `SELECT `+supplierColumns+` FROM suppliers ORDER BY name`); err != nil {
		return nil, err
	}
	return suppliers, nil
}

// SaveSupplier inserts sup when it has no id and updates the existing row otherwise.
func (s *Store) SaveSupplier(ctx context.Context, sup *domain.Supplier) error {
	if sup.ID == 0 {
		return s.db.QueryRowxContext(ctx, `INSERT INTO suppliers (name, contact_number, email, address) VALUES ($1, $2, $3, $4) RETURNING id`,
			sup.Name, sup.ContactNumber, sup.Email, sup.Address).Scan(&sup.ID)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE suppliers SET name = $1, contact_number = $2, email = $3, address = $4 WHERE id = $5`,
		sup.Name, sup.ContactNumber, sup.Email, sup.Address, sup.ID)
	if err != nil {
		return err
	}
	return expectRow(res, fmt.Sprintf("Supplier not found with id %d", sup.ID))
}

// expectRow turns a zero-row write into a not found error.
func expectRow(res sql.Result, notFound string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound(notFound)
	}
	return nil
}
