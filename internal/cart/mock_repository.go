package cart

import (
	"sync"
)

type mockRepository struct {
	carts  map[uint]*Cart // keyed by owner
	nextID uint
	// conflicts makes the next n SaveItems calls fail the version
	// check, to exercise retry behavior.
	conflicts int
	mu        sync.Mutex
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		carts:  make(map[uint]*Cart),
		nextID: 1,
	}
}

func (r *mockRepository) GetByUserID(userID uint) (*Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, exists := r.carts[userID]
	if !exists {
		return nil, ErrCartNotFound
	}

	clone := *cart
	clone.Items = append([]CartItem(nil), cart.Items...)
	return &clone, nil
}

func (r *mockRepository) Create(cart *Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart.ID = r.nextID
	r.nextID++

	clone := *cart
	clone.Items = append([]CartItem(nil), cart.Items...)
	r.carts[cart.UserID] = &clone
	return nil
}

func (r *mockRepository) SaveItems(cart *Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conflicts > 0 {
		r.conflicts--
		return ErrVersionConflict
	}

	stored, exists := r.carts[cart.UserID]
	if !exists {
		return ErrCartNotFound
	}
	if stored.Version != cart.Version {
		return ErrVersionConflict
	}

	stored.Version++
	stored.Items = append([]CartItem(nil), cart.Items...)
	return nil
}
