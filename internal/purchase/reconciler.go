package purchase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"medibill/m/domain"
)

// BatchReconciler folds a purchase line into the batch it belongs to.
type BatchReconciler struct {
	store  BatchStore
	logger *zap.Logger
}

func NewBatchReconciler(store BatchStore, logger *zap.Logger) *BatchReconciler {
	return &BatchReconciler{store: store, logger: logger}
}

// Reconcile finds or creates the batch for (medicine, batchNo, onBill), merges
// the incoming stock into it and saves it. The returned batch is persisted.
func (r *BatchReconciler) Reconcile(ctx context.Context, medicine *domain.Medicine, batchNo string, onBill bool, incoming domain.Receipt) (*domain.Batch, error) {
	if strings.TrimSpace(batchNo) == "" {
		return nil, domain.InvalidInput("batch number is required for medicine %d", medicine.ID)
	}
	// Reject bad quantities before touching storage.
	if err := incoming.Validate(batchNo); err != nil {
		return nil, err
	}

	key := domain.BatchKey{MedicineID: medicine.ID, BatchNo: batchNo, OnBill: onBill}
	batch, err := r.store.FindBatchForUpdate(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		batch, err = r.store.CreateBatch(ctx, domain.NewBatch(key))
		if err == nil {
			r.logger.Info("batch created",
				zap.Int64("batch_id", batch.ID),
				zap.Int64("medicine_id", key.MedicineID),
				zap.String("batch_no", key.BatchNo),
				zap.Bool("on_bill", key.OnBill),
			)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("load batch %q of medicine %d: %w", batchNo, medicine.ID, err)
	}

	if err := batch.Receive(incoming); err != nil {
		return nil, err
	}
	if err := r.store.UpdateBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("save batch %d: %w", batch.ID, err)
	}
	return batch, nil
}
