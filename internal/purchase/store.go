package purchase

import (
	"context"

	"medibill/m/domain"
)

// MedicineStore persists medicines.
type MedicineStore interface {
	// FindMedicine returns domain.ErrNotFound when id does not exist.
	FindMedicine(ctx context.Context, id int64) (*domain.Medicine, error)
	CreateMedicine(ctx context.Context, m *domain.Medicine) error
}

// BatchStore persists batches. Both lookups lock the returned row until the
// surrounding transaction ends.
type BatchStore interface {
	// FindBatchForUpdate returns domain.ErrNotFound when no batch has key.
	FindBatchForUpdate(ctx context.Context, key domain.BatchKey) (*domain.Batch, error)
	// CreateBatch inserts b unless a batch with the same key already exists,
	// then returns the stored, locked row for that key.
	CreateBatch(ctx context.Context, b *domain.Batch) (*domain.Batch, error)
	UpdateBatch(ctx context.Context, b *domain.Batch) error
}

type SupplierStore interface {
	// FindSupplier returns domain.ErrNotFound when id does not exist.
	FindSupplier(ctx context.Context, id int64) (*domain.Supplier, error)
}

type PurchaseStore interface {
	// CreatePurchase inserts p and all of its items, filling generated ids.
	CreatePurchase(ctx context.Context, p *domain.Purchase) error
}

// Repositories exposes stores that share one transaction.
type Repositories interface {
	Medicines() MedicineStore
	Batches() BatchStore
	Suppliers() SupplierStore
	Purchases() PurchaseStore
}

// UnitOfWork runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}
