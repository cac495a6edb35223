package purchase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"medibill/m/domain"
)

// Service ingests purchase documents.
type Service struct {
	uow      UnitOfWork
	validate *validator.Validate
	logger   *zap.Logger
}

func NewService(uow UnitOfWork, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		uow:      uow,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.Named("purchase"),
	}
}

// CreatePurchase records req and the stock it brings in as one transaction.
// On any error nothing is committed: no medicines, batches or purchase rows.
func (s *Service) CreatePurchase(ctx context.Context, req CreateRequest) (*domain.Purchase, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	var created *domain.Purchase
	err := s.uow.Execute(ctx, func(repos Repositories) error {
		p, err := s.ingest(ctx, repos, req)
		if err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		s.logger.Warn("purchase rejected",
			zap.String("invoice_no", req.InvoiceNumber),
			zap.Int64("supplier_id", req.DistributorID),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("purchase recorded",
		zap.Int64("purchase_id", created.ID),
		zap.String("invoice_no", created.InvoiceNo),
		zap.Int("items", len(created.Items)),
		zap.Float64("total_amount", created.TotalAmount),
		zap.Float64("total_gst", created.TotalGST),
	)
	return created, nil
}

func (s *Service) ingest(ctx context.Context, repos Repositories, req CreateRequest) (*domain.Purchase, error) {
	supplier, err := repos.Suppliers().FindSupplier(ctx, req.DistributorID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound("Supplier not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find supplier %d: %w", req.DistributorID, err)
	}

	p := &domain.Purchase{
		InvoiceNo:    req.InvoiceNumber,
		PurchaseDate: *req.PurchaseDate,
		SupplierID:   supplier.ID,
		PurchaseType: req.PurchaseType,
		PaymentType:  req.PaymentType,
		RateType:     req.RateType,
		TaxType:      req.TaxType,
	}
	onBill := p.OnBill()

	medicines := NewMedicineResolver(repos.Medicines())
	batches := NewBatchReconciler(repos.Batches(), s.logger)

	var totalGST, totalAmount float64
	items := make([]domain.PurchaseItem, 0, len(req.Medicines))
	for i, line := range req.Medicines {
		item, err := s.ingestLine(ctx, medicines, batches, p.RateType, onBill, line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		totalGST += item.GSTAmount
		totalAmount += item.TotalAmount
		items = append(items, item)
	}

	p.TotalGST = totalGST
	p.TotalAmount = totalAmount
	p.Items = items
	if err := repos.Purchases().CreatePurchase(ctx, p); err != nil {
		return nil, fmt.Errorf("save purchase: %w", err)
	}
	return p, nil
}

func (s *Service) ingestLine(ctx context.Context, medicines *MedicineResolver, batches *BatchReconciler, rateType string, onBill bool, line LineRequest) (domain.PurchaseItem, error) {
	medicine, err := medicines.Resolve(ctx, line.MedicineID, line.MedicineName)
	if err != nil {
		return domain.PurchaseItem{}, err
	}
	expiry, err := domain.ParseExpiry(line.Expiry)
	if err != nil {
		return domain.PurchaseItem{}, err
	}

	batch, err := batches.Reconcile(ctx, medicine, line.Batch, onBill, domain.Receipt{
		Quantity:   line.Qty,
		NetRate:    EffectiveRate(rateType, line),
		MRP:        line.MRP.Ptr(),
		GSTPercent: line.Tax,
		Expiry:     expiry,
	})
	if err != nil {
		return domain.PurchaseItem{}, err
	}

	item := PriceLine(rateType, line, batch, expiry)
	item.MedicineID = medicine.ID
	return item, nil
}

func (s *Service) validateRequest(req CreateRequest) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.InvalidInput("invalid purchase: %v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return domain.InvalidInput("invalid purchase: %s", strings.Join(msgs, "; "))
}
