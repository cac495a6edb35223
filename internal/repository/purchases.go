package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"medibill/m/domain"
)

const (
	purchaseColumns = `id, invoice_no, purchase_date, supplier_id, purchase_type, payment_type, rate_type, tax_type, total_amount, total_gst, created_at`
	itemColumns     = `id, purchase_id, medicine_id, batch_id, batch_no, quantity, unit_price, net_unit_price, actual_price, tax_percent, expiry, gst_amount, total_amount`
)

type purchaseRepo struct {
	q sqlx.ExtContext
}

func (r *purchaseRepo) CreatePurchase(ctx context.Context, p *domain.Purchase) error {
	err := r.q.QueryRowxContext(ctx, `INSERT INTO purchases (invoice_no, purchase_date, supplier_id, purchase_type, payment_type, rate_type, tax_type, total_amount, total_gst)
                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_at`,
		p.InvoiceNo, p.PurchaseDate, p.SupplierID, p.PurchaseType, p.PaymentType, p.RateType, p.TaxType, p.TotalAmount, p.TotalGST,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}

	for i := range p.Items {
		item := &p.Items[i]
		item.PurchaseID = p.ID
		err := r.q.QueryRowxContext(ctx, `INSERT INTO purchase_items (purchase_id, medicine_id, batch_id, batch_no, quantity, unit_price, net_unit_price, actual_price, tax_percent, expiry, gst_amount, total_amount)
                VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`,
			item.PurchaseID, item.MedicineID, item.BatchID, item.BatchNo, item.Quantity, item.UnitPrice, item.NetUnitPrice,
			item.ActualPrice, item.TaxPercent, item.Expiry, item.GSTAmount, item.TotalAmount,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("insert purchase item %d: %w", i+1, err)
		}
	}
	return nil
}

// GetPurchase returns a purchase with its items in line order.
func (s *Store) GetPurchase(ctx context.Context, id int64) (*domain.Purchase, error) {
	var p domain.Purchase
	err := s.db.GetContext(ctx, &p, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound(fmt.Sprintf("Purchase not found: %d", id))
	}
	if err != nil {
		return nil, err
	}
	items := []domain.PurchaseItem{}
	if err := s.db.SelectContext(ctx, &items, `SELECT `+itemColumns+` FROM purchase_items WHERE purchase_id = $1 ORDER BY id`, id); err != nil {
		return nil, err
	}
	p.Items = items
	return &p, nil
}

// ListPurchases returns all purchases, newest first, each with its items.
func (s *Store) ListPurchases(ctx context.Context) ([]domain.Purchase, error) {
	purchases := []domain.Purchase{}
	if err := s.db.SelectContext(ctx, &purchases, `SELECT `+purchaseColumns+` FROM purchases ORDER BY id DESC`); err != nil {
		return nil, err
	}
	if len(purchases) == 0 {
		return purchases, nil
	}

	ids := make([]int64, len(purchases))
	for i, p := range purchases {
		ids[i] = p.ID
	}
	itemsQuery, args, err := sqlx.In(`SELECT `+itemColumns+` FROM purchase_items WHERE purchase_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	var items []domain.PurchaseItem
	if err := s.db.SelectContext(ctx, &items, s.db.Rebind(itemsQuery), args...); err != nil {
		return nil, err
	}
	byPurchase := make(map[int64][]domain.PurchaseItem)
	for _, item := range items {
		byPurchase[item.PurchaseID] = append(byPurchase[item.PurchaseID], item)
	}
	for i := range purchases {
		purchases[i].Items = byPurchase[purchases[i].ID]
		if purchases[i].Items == nil {
			purchases[i].Items = []domain.PurchaseItem{}
		}
	}
	return purchases, nil
}

// BatchHistory lists the purchase items that brought stock into a batch.
func (s *Store) BatchHistory(ctx context.Context, batchID int64) ([]domain.PurchaseItem, error) {
	items := []domain.PurchaseItem{}
	if err := s.db.SelectContext(ctx, &items, `SELECT `+itemColumns+` FROM purchase_items WHERE batch_id = $1 ORDER BY id`, batchID); err != nil {
		return nil, err
	}
	return items, nil
}
