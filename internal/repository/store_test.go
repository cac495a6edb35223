package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medibill/m/domain"
	"medibill/m/internal/database"
	"medibill/m/internal/migrations"
	"medibill/m/internal/purchase"
)

func newTestStore(t *testing.T) (*Store, *sqlx.DB) {
	t.Helper()
	db, err := database.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db))
	return New(db), db
}

func int64Ptr(v int64) *int64       { return &v }
func float64Ptr(v float64) *float64 { return &v }
func strPtr(v string) *string       { return &v }

func testDate() *domain.Date {
	d := domain.NewDate(2025, time.March, 1)
	return &d
}

func addSupplier(t *testing.T, s *Store) int64 {
	t.Helper()
	sup := domain.Supplier{Name: "Acme Pharma", ContactNumber: "555-0100"}
	require.NoError(t, s.SaveSupplier(context.Background(), &sup))
	return sup.ID
}

func count(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM `+table))
	return n
}

func TestDialectFor(t *testing.T) {
	assert.Equal(t, Postgres, DialectFor("postgres"))
	assert.Equal(t, SQLite, DialectFor("sqlite"))
	assert.Empty(t, SQLite.LockClause)
	assert.Equal(t, " FOR UPDATE", Postgres.LockClause)
}

func TestStore_CreatePurchaseEndToEnd(t *testing.T) {
	ctx := context.Background()
	store, db := newTestStore(t)
	supplier := addSupplier(t, store)
	svc := purchase.NewService(store, zap.NewNop())

	first, err := svc.CreatePurchase(ctx, purchase.CreateRequest{
		PurchaseDate:  testDate(),
		InvoiceNumber: "INV-100",
		DistributorID: supplier,
		PurchaseType:  domain.PurchaseTypeStockUpdate,
		PaymentType:   "credit",
		Medicines: []purchase.LineRequest{{
			MedicineName: "Paracetamol",
			Batch:        "B100",
			Qty:          int64Ptr(100),
			MRP:          purchase.NewAmount(15),
			NetUnitPrice: 10,
			Tax:          float64Ptr(12),
			Expiry:       strPtr("31122026"),
		}},
	})
	require.NoError(t, err)
	require.NotZero(t, first.ID)
	require.Len(t, first.Items, 1)
	medicineID := first.Items[0].MedicineID
	batchID := *first.Items[0].BatchID

	_, err = svc.CreatePurchase(ctx, purchase.CreateRequest{
		PurchaseDate:  testDate(),
		InvoiceNumber: "INV-101",
		DistributorID: supplier,
		PurchaseType:  domain.PurchaseTypeStockUpdate,
		Medicines: []purchase.LineRequest{{
			MedicineID:   &medicineID,
			Batch:        "B100",
			Qty:          int64Ptr(50),
			NetUnitPrice: 11,
			Tax:          float64Ptr(5),
			Expiry:       strPtr("30062027"),
		}},
	})
	require.NoError(t, err)

	batch, err := store.FindBatch(ctx, batchID)
	require.NoError(t, err)
	assert.Equal(t, int64(150), batch.Quantity)
	assert.True(t, batch.OnBill)
	assert.Equal(t, 11.0, *batch.PurchaseRate)
	assert.Equal(t, 12.0, *batch.GSTPercent)
	assert.Nil(t, batch.MRP)
	assert.Equal(t, "2027-06-30", batch.ExpiryDate.String())

	got, err := store.GetPurchase(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-100", got.InvoiceNo)
	assert.Equal(t, "2025-03-01", got.PurchaseDate.String())
	assert.Equal(t, "credit", got.PaymentType)
	assert.NotEmpty(t, got.CreatedAt)
	assert.InDelta(t, 1000.0, got.TotalAmount, 1e-9)
	assert.InDelta(t, 107.142857, got.TotalGST, 1e-6)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 10.0, got.Items[0].NetUnitPrice)
	assert.Equal(t, "2026-12-31", got.Items[0].Expiry.String())
	assert.Nil(t, got.Items[0].ActualPrice)

	all, err := store.ListPurchases(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "INV-101", all[0].InvoiceNo)
	assert.Len(t, all[1].Items, 1)

	history, err := store.BatchHistory(ctx, batchID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	assert.Equal(t, 1, count(t, db, "batches"))
	assert.Equal(t, 1, count(t, db, "medicines"))
}

func TestStore_FailedPurchaseLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	store, db := newTestStore(t)
	supplier := addSupplier(t, store)
	svc := purchase.NewService(store, zap.NewNop())

	_, err := svc.CreatePurchase(ctx, purchase.CreateRequest{
		PurchaseDate:  testDate(),
		DistributorID: supplier,
		Medicines: []purchase.LineRequest{
			{MedicineName: "Paracetamol", Batch: "B1", Qty: int64Ptr(10), NetUnitPrice: 1},
			{MedicineName: "Ibuprofen", Batch: "I1", Qty: int64Ptr(5), NetUnitPrice: 2, Expiry: strPtr("31042025")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDate)

	_, err = svc.CreatePurchase(ctx, purchase.CreateRequest{
		PurchaseDate:  testDate(),
		DistributorID: supplier,
		Medicines: []purchase.LineRequest{
			{MedicineName: "Paracetamol", Batch: "B1", Qty: int64Ptr(10), NetUnitPrice: 1},
			{MedicineID: int64Ptr(424242), Batch: "X", Qty: int64Ptr(1)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	for _, table := range []string{"medicines", "batches", "purchases", "purchase_items"} {
		assert.Zero(t, count(t, db, table), table)
	}
}

func TestStore_ExecuteRollsBackOnPanic(t *testing.T) {
	ctx := context.Background()
	store, db := newTestStore(t)

	assert.Panics(t, func() {
		_ = store.Execute(ctx, func(repos purchase.Repositories) error {
			require.NoError(t, repos.Medicines().CreateMedicine(ctx, &domain.Medicine{Name: "Ghost"}))
			panic("boom")
		})
	})
	assert.Zero(t, count(t, db, "medicines"))

	err := store.Execute(ctx, func(repos purchase.Repositories) error {
		return errors.New("nope")
	})
	assert.EqualError(t, err, "nope")
}

func TestStore_ConcurrentReceiptsAccumulate(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "concurrent.db")
	db, err := database.Connect("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db))
	store := New(db)

	supplier := addSupplier(t, store)
	med := domain.Medicine{Name: "Paracetamol"}
	require.NoError(t, store.Execute(ctx, func(repos purchase.Repositories) error {
		return repos.Medicines().CreateMedicine(ctx, &med)
	}))

	svc := purchase.NewService(store, zap.NewNop())
	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.CreatePurchase(ctx, purchase.CreateRequest{
				PurchaseDate:  testDate(),
				InvoiceNumber: fmt.Sprintf("INV-%d", i),
				DistributorID: supplier,
				PurchaseType:  domain.PurchaseTypeStockUpdate,
				Medicines: []purchase.LineRequest{{
					MedicineID: &med.ID, Batch: "B100", Qty: int64Ptr(int64(i + 1)), NetUnitPrice: 10,
				}},
			})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	batches, err := store.BatchesForMedicine(ctx, med.ID)
	require.NoError(t, err)
	require.Len(t, batches, 1)
	assert.Equal(t, int64(workers*(workers+1)/2), batches[0].Quantity)
}

func TestStore_CreateBatchIgnoresDuplicateKey(t *testing.T) {
	ctx := context.Background()
	store, db := newTestStore(t)

	err := store.Execute(ctx, func(repos purchase.Repositories) error {
		med := domain.Medicine{Name: "Cetirizine"}
		if err := repos.Medicines().CreateMedicine(ctx, &med); err != nil {
			return err
		}
		key := domain.BatchKey{MedicineID: med.ID, BatchNo: "C1", OnBill: false}
		a, err := repos.Batches().CreateBatch(ctx, domain.NewBatch(key))
		if err != nil {
			return err
		}
		b, err := repos.Batches().CreateBatch(ctx, domain.NewBatch(key))
		if err != nil {
			return err
		}
		assert.Equal(t, a.ID, b.ID)

		_, err = repos.Batches().FindBatchForUpdate(ctx, domain.BatchKey{MedicineID: med.ID, BatchNo: "C1", OnBill: true})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count(t, db, "batches"))

	err = store.Execute(ctx, func(repos purchase.Repositories) error {
		return repos.Batches().UpdateBatch(ctx, &domain.Batch{ID: 999})
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_ReadModels(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	supplier := addSupplier(t, store)
	svc := purchase.NewService(store, zap.NewNop())

	soon := time.Now().AddDate(0, 0, 10)
	later := time.Now().AddDate(1, 0, 0)
	_, err := svc.CreatePurchase(ctx, purchase.CreateRequest{
		PurchaseDate:  testDate(),
		DistributorID: supplier,
		Medicines: []purchase.LineRequest{
			{MedicineName: "Amoxicillin 250", Batch: "A1", Qty: int64Ptr(5), NetUnitPrice: 8, MRP: purchase.NewAmount(12), Expiry: strPtr(soon.Format("02012006"))},
			{MedicineName: "Amoxicillin 500", Batch: "A2", Qty: int64Ptr(0), NetUnitPrice: 9, Expiry: strPtr(soon.Format("02012006"))},
			{MedicineName: "Zinc", Batch: "Z1", Qty: int64Ptr(7), NetUnitPrice: 3, Expiry: strPtr(later.Format("02012006"))},
		},
	})
	require.NoError(t, err)

	summary, err := store.MedicineSummary(ctx)
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, "Amoxicillin 250", summary[0].Name)
	assert.Equal(t, int64(5), summary[0].TotalQuantity)
	assert.Equal(t, 8.0, *summary[0].HighestNetRate)
	assert.Equal(t, 12.0, *summary[0].HighestMRP)
	require.NotNil(t, summary[0].EarliestExpiry)

	results, err := store.SearchMedicines(ctx, "AMOX")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "A1", results[0].Batches[0].BatchNo)

	none, err := store.SearchMedicines(ctx, "nothing")
	require.NoError(t, err)
	assert.Empty(t, none)

	cutoff := time.Now().AddDate(0, 0, 30)
	expiring, err := store.ExpiringBatches(ctx, domain.NewDate(cutoff.Year(), cutoff.Month(), cutoff.Day()))
	require.NoError(t, err)
	require.Len(t, expiring, 1, "empty and far-off batches are excluded")
	assert.Equal(t, "A1", expiring[0].BatchNo)

	_, err = store.GetPurchase(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.FindBatch(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SuppliersAndCustomers(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	sup := domain.Supplier{Name: "Zen Distributors"}
	require.NoError(t, store.SaveSupplier(ctx, &sup))
	sup.Email = "orders@zen.example"
	require.NoError(t, store.SaveSupplier(ctx, &sup))
	assert.ErrorIs(t, store.SaveSupplier(ctx, &domain.Supplier{ID: 404, Name: "ghost"}), domain.ErrNotFound)

	suppliers, err := store.ListSuppliers(ctx)
	require.NoError(t, err)
	require.Len(t, suppliers, 1)
	assert.Equal(t, "orders@zen.example", suppliers[0].Email)

	c := domain.Customer{Name: "City Clinic", GSTNumber: "29ABCDE1234F1Z5"}
	require.NoError(t, store.SaveCustomer(ctx, &c))
	customers, err := store.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "29ABCDE1234F1Z5", customers[0].GSTNumber)

	require.NoError(t, store.DeleteCustomer(ctx, c.ID))
	assert.ErrorIs(t, store.DeleteCustomer(ctx, c.ID), domain.ErrNotFound)
}
