package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"medibill/m/domain"
)

const batchColumns = `id, medicine_id, batch_no, on_bill, quantity, purchase_rate, mrp, gst_percent, expiry_date`

type batchRepo struct {
	q       sqlx.ExtContext
	dialect Dialect
}

func (r *batchRepo) FindBatchForUpdate(ctx context.Context, key domain.BatchKey) (*domain.Batch, error) {
	var b domain.Batch
	err := sqlx.GetContext(ctx, r.q, &b, `SELECT `+batchColumns+` FROM batches
                WHERE medicine_id = $1 AND batch_no = $2 AND on_bill = $3`+r.dialect.LockClause,
		key.MedicineID, key.BatchNo, key.OnBill)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBatch inserts b. A concurrent transaction may have created the same key
// first; the conflict is ignored and both end up holding the single stored row.
func (r *batchRepo) CreateBatch(ctx context.Context, b *domain.Batch) (*domain.Batch, error) {
	_, err := r.q.ExecContext(ctx, `INSERT INTO batches (medicine_id, batch_no, on_bill, quantity, purchase_rate, mrp, gst_percent, expiry_date)
                VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                ON CONFLICT (medicine_id, batch_no, on_bill) DO NOTHING`,
		b.MedicineID, b.BatchNo, b.OnBill, b.Quantity, b.PurchaseRate, b.MRP, b.GSTPercent, b.ExpiryDate)
	if err != nil {
		return nil, fmt.Errorf("insert batch: %w", err)
	}
	return r.FindBatchForUpdate(ctx, b.Key())
}

func (r *batchRepo) UpdateBatch(ctx context.Context, b *domain.Batch) error {
	res, err := r.q.ExecContext(ctx, `UPDATE batches SET quantity = $1, purchase_rate = $2, mrp = $3, gst_percent = $4, expiry_date = $5
                WHERE id = $6`,
		b.Quantity, b.PurchaseRate, b.MRP, b.GSTPercent, b.ExpiryDate, b.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound(fmt.Sprintf("Batch not found: %d", b.ID))
	}
	return nil
}

// FindBatch returns one batch by id.
func (s *Store) FindBatch(ctx context.Context, id int64) (*domain.Batch, error) {
	var b domain.Batch
	err := s.db.GetContext(ctx, &b, `SELECT `+batchColumns+` FROM batches WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound(fmt.Sprintf("Batch not found: %d", id))
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// BatchesForMedicine lists every batch of a medicine, on and off bill.
func (s *Store) BatchesForMedicine(ctx context.Context, medicineID int64) ([]domain.Batch, error) {
	batches := []domain.Batch{}
	if err := s.db.SelectContext(ctx, &batches, `SELECT `+batchColumns+` FROM batches WHERE medicine_id = $1 ORDER BY id`, medicineID); err != nil {
		return nil, err
	}
	return batches, nil
}

// ExpiringBatches lists batches still in stock whose expiry is on or before cutoff.
func (s *Store) ExpiringBatches(ctx context.Context, cutoff domain.Date) ([]domain.Batch, error) {
	batches := []domain.Batch{}
	err := s.db.SelectContext(ctx, &batches, `SELECT `+batchColumns+` FROM batches
                WHERE quantity > 0
                AND expiry_date IS NOT NULL
                AND expiry_date <= $1
                ORDER BY expiry_date ASC, id ASC`, cutoff)
	if err != nil {
		return nil, err
	}
	return batches, nil
}
