package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"medibill/m/domain"
)

const medicineColumns = `id, name, sku, brand`

type medicineRepo struct {
	q sqlx.ExtContext
}

func (r *medicineRepo) FindMedicine(ctx context.Context, id int64) (*domain.Medicine, error) {
	var m domain.Medicine
	err := sqlx.GetContext(ctx, r.q, &m, `SELECT `+medicineColumns+` FROM medicines WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *medicineRepo) CreateMedicine(ctx context.Context, m *domain.Medicine) error {
	return r.q.QueryRowxContext(ctx, `INSERT INTO medicines (name, sku, brand) VALUES ($1, $2, $3) RETURNING id`,
		m.Name, m.SKU, m.Brand).Scan(&m.ID)
}

// MedicineSummary aggregates stock and prices across each medicine's batches.
func (s *Store) MedicineSummary(ctx context.Context) ([]domain.MedicineSummary, error) {
	summaries := []domain.MedicineSummary{}
	err := s.db.SelectContext(ctx, &summaries, `SELECT m.id, m.name, m.brand,
                COALESCE(SUM(b.quantity), 0) AS total_quantity,
                MIN(b.expiry_date) AS earliest_expiry,
                MAX(b.purchase_rate) AS highest_net_rate,
                MAX(b.mrp) AS highest_mrp
                FROM medicines m
                LEFT JOIN batches b ON b.medicine_id = m.id
                GROUP BY m.id, m.name, m.brand
                ORDER BY m.name`)
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// SearchMedicines matches medicine names case-insensitively and attaches the
// batches each match has.
func (s *Store) SearchMedicines(ctx context.Context, query string) ([]domain.MedicineSearchResult, error) {
	like := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var medicines []domain.Medicine
	if err := s.db.SelectContext(ctx, &medicines, `SELECT `+medicineColumns+` FROM medicines WHERE LOWER(name) LIKE $1 ORDER BY name LIMIT 25`, like); err != nil {
		return nil, err
	}
	results := make([]domain.MedicineSearchResult, len(medicines))
	if len(medicines) == 0 {
		return results, nil
	}

	ids := make([]int64, len(medicines))
	for i, m := range medicines {
		ids[i] = m.ID
	}
	batchQuery, args, err := sqlx.In(`SELECT id, medicine_id, batch_no FROM batches WHERE medicine_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		domain.BatchRef
		MedicineID int64 `db:"medicine_id"`
	}
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(batchQuery), args...); err != nil {
		return nil, err
	}
	byMedicine := make(map[int64][]domain.BatchRef)
	for _, row := range rows {
		byMedicine[row.MedicineID] = append(byMedicine[row.MedicineID], row.BatchRef)
	}

	for i, m := range medicines {
		batches := byMedicine[m.ID]
		if batches == nil {
			batches = []domain.BatchRef{}
		}
		results[i] = domain.MedicineSearchResult{MedicineID: m.ID, MedicineName: m.Name, Batches: batches}
	}
	return results, nil
}
