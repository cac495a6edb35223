package purchase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"medibill/m/domain"
)

// MedicineResolver finds the medicine a purchase line refers to.
type MedicineResolver struct {
	store MedicineStore
}

func NewMedicineResolver(store MedicineStore) *MedicineResolver {
	return &MedicineResolver{store: store}
}

// ResolveByID returns the medicine with id or a "Medicine not found" error.
func (r *MedicineResolver) ResolveByID(ctx context.Context, id int64) (*domain.Medicine, error) {
	m, err := r.store.FindMedicine(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NotFound(fmt.Sprintf("Medicine not found: %d", id))
	}
	if err != nil {
		return nil, fmt.Errorf("find medicine %d: %w", id, err)
	}
	return m, nil
}

// ResolveOrCreateByName always creates a new medicine named name. Existing
// medicines are never matched by name; callers refer to them by id.
func (r *MedicineResolver) ResolveOrCreateByName(ctx context.Context, name string) (*domain.Medicine, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.InvalidInput("medicine_id or medicine_name is required")
	}
	m := &domain.Medicine{Name: name}
	if err := r.store.CreateMedicine(ctx, m); err != nil {
		return nil, fmt.Errorf("create medicine %q: %w", name, err)
	}
	return m, nil
}

// Resolve picks ResolveByID when id is set and ResolveOrCreateByName otherwise.
func (r *MedicineResolver) Resolve(ctx context.Context, id *int64, name string) (*domain.Medicine, error) {
	if id != nil {
		return r.ResolveByID(ctx, *id)
	}
	return r.ResolveOrCreateByName(ctx, name)
}
