package repository

import (
	"context"
	"fmt"

	"medibill/m/domain"
)

const customerColumns = `id, name, address, email, phone_number, gst_number, license_number`

func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	customers := []domain.Customer{}
	if err := s.db.SelectContext(ctx, &customers, `SELECT `+customerColumns+` FROM customers ORDER BY name`); err != nil {
		return nil, err
	}
	return customers, nil
}

func (s *Store) SaveCustomer(ctx context.Context, c *domain.Customer) error {
	if c.ID == 0 {
		return s.db.QueryRowxContext(ctx, `INSERT INTO customers (name, address, email, phone_number, gst_number, license_number)
                VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			c.Name, c.Address, c.Email, c.PhoneNumber, c.GSTNumber, c.LicenseNumber).Scan(&c.ID)
	}
	res, err := s.db.ExecContext(ctx, `UPDATE customers SET name = $1, address = $2, email = $3, phone_number = $4, gst_number = $5, license_number = $6
                WHERE id = $7`,
		c.Name, c.Address, c.Email, c.PhoneNumber, c.GSTNumber, c.LicenseNumber, c.ID)
	if err != nil {
		return err
	}
	return expectRow(res, fmt.Sprintf("Customer not found with id %d", c.ID))
}

func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectRow(res, fmt.Sprintf("Customer not found with id %d", id))
}
