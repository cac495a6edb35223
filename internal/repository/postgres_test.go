package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"medibill/m/domain"
	"medibill/m/internal/purchase"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return New(sqlx.NewDb(mockDB, "postgres")), mock
}

var batchRowColumns = []string{"id", "medicine_id", "batch_no", "on_bill", "quantity", "purchase_rate", "mrp", "gst_percent", "expiry_date"}

func TestPostgres_ReconcileLocksAndUpserts(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	lockQuery := regexp.QuoteMeta(`FROM batches WHERE medicine_id = $1 AND batch_no = $2 AND on_bill = $3 FOR UPDATE`)

	mock.ExpectBegin()
	mock.ExpectQuery(lockQuery).
		WithArgs(int64(7), "B100", true).
		WillReturnRows(sqlmock.NewRows(batchRowColumns))
	mock.ExpectExec(regexp.QuoteMeta(`ON CONFLICT (medicine_id, batch_no, on_bill) DO NOTHING`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(lockQuery).
		WithArgs(int64(7), "B100", true).
		WillReturnRows(sqlmock.NewRows(batchRowColumns).AddRow(31, 7, "B100", true, 40, 9.5, nil, 12.0, nil))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE batches SET quantity = $1`)).
		WithArgs(int64(45), 10.0, nil, 12.0, nil, int64(31)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var got *domain.Batch
	err := store.Execute(ctx, func(repos purchase.Repositories) error {
		qty := int64(5)
		b, err := purchase.NewBatchReconciler(repos.Batches(), zap.NewNop()).
			Reconcile(ctx, &domain.Medicine{ID: 7}, "B100", true, domain.Receipt{Quantity: &qty, NetRate: 10, GSTPercent: float64Ptr(5)})
		got = b
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(31), got.ID)
	assert.Equal(t, int64(45), got.Quantity, "row created concurrently is merged, not replaced")
	assert.Equal(t, 12.0, *got.GSTPercent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgres_ExecuteRollsBackOnError(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM suppliers WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "contact_number", "email", "address"}))
	mock.ExpectRollback()

	err := store.Execute(ctx, func(repos purchase.Repositories) error {
		_, err := repos.Suppliers().FindSupplier(ctx, 3)
		return err
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
