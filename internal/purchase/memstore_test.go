package purchase

import (
	"context"
	"errors"
	"sync"

	"medibill/m/domain"
)

// memStore is an in-memory UnitOfWork. Execute snapshots state and restores it
// when fn fails, so tests can observe rollback.
type memStore struct {
	mu sync.Mutex

	medicines map[int64]domain.Medicine
	batches   map[int64]domain.Batch
	suppliers map[int64]domain.Supplier
	purchases []domain.Purchase
	nextID    int64

	failUpdate error
	commits    int
	rollbacks  int
}

func newMemStore() *memStore {
	return &memStore{
		medicines: make(map[int64]domain.Medicine),
		batches:   make(map[int64]domain.Batch),
		suppliers: make(map[int64]domain.Supplier),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) addSupplier(name string) int64 {
	id := s.id()
	s.suppliers[id] = domain.Supplier{ID: id, Name: name}
	return id
}

func (s *memStore) addMedicine(name string) int64 {
	id := s.id()
	s.medicines[id] = domain.Medicine{ID: id, Name: name}
	return id
}

func (s *memStore) batchByKey(key domain.BatchKey) (domain.Batch, bool) {
	for _, b := range s.batches {
		if b.Key() == key {
			return b, true
		}
	}
	return domain.Batch{}, false
}

func (s *memStore) Execute(ctx context.Context, fn func(repos Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	medicines := make(map[int64]domain.Medicine, len(s.medicines))
	for k, v := range s.medicines {
		medicines[k] = v
	}
	batches := make(map[int64]domain.Batch, len(s.batches))
	for k, v := range s.batches {
		batches[k] = v
	}
	purchases := append([]domain.Purchase(nil), s.purchases...)
	nextID := s.nextID

	if err := fn(s); err != nil {
		s.medicines, s.batches, s.purchases, s.nextID = medicines, batches, purchases, nextID
		s.rollbacks++
		return err
	}
	s.commits++
	return nil
}

func (s *memStore) Medicines() MedicineStore { return s }
func (s *memStore) Batches() BatchStore      { return s }
func (s *memStore) Suppliers() SupplierStore { return s }
func (s *memStore) Purchases() PurchaseStore { return s }

func (s *memStore) FindMedicine(_ context.Context, id int64) (*domain.Medicine, error) {
	m, ok := s.medicines[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

func (s *memStore) CreateMedicine(_ context.Context, m *domain.Medicine) error {
	m.ID = s.id()
	s.medicines[m.ID] = *m
	return nil
}

func (s *memStore) FindBatchForUpdate(_ context.Context, key domain.BatchKey) (*domain.Batch, error) {
	b, ok := s.batchByKey(key)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (s *memStore) CreateBatch(ctx context.Context, b *domain.Batch) (*domain.Batch, error) {
	if _, ok := s.batchByKey(b.Key()); !ok {
		stored := *b
		stored.ID = s.id()
		s.batches[stored.ID] = stored
	}
	return s.FindBatchForUpdate(ctx, b.Key())
}

func (s *memStore) UpdateBatch(_ context.Context, b *domain.Batch) error {
	if s.failUpdate != nil {
		return s.failUpdate
	}
	if _, ok := s.batches[b.ID]; !ok {
		return domain.ErrNotFound
	}
	if b.Quantity < 0 {
		return errors.New("quantity check constraint")
	}
	s.batches[b.ID] = *b
	return nil
}

func (s *memStore) FindSupplier(_ context.Context, id int64) (*domain.Supplier, error) {
	sup, ok := s.suppliers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &sup, nil
}

func (s *memStore) CreatePurchase(_ context.Context, p *domain.Purchase) error {
	p.ID = s.id()
	for i := range p.Items {
		p.Items[i].ID = s.id()
		p.Items[i].PurchaseID = p.ID
	}
	s.purchases = append(s.purchases, *p)
	return nil
}
