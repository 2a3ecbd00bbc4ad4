package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// stubProducts answers existence checks from a fixed set.
type stubProducts struct {
	known map[uint]bool
}

func (s *stubProducts) ProductExists(id uint) (bool, error) {
	return s.known[id], nil
}

func newTestCartService(t *testing.T) (*Service, *mockRepository) {
	logger, err := zap.NewDevelopment()
	assert.NoError(t, err)

	codec, err := NewCodec("test-secret")
	assert.NoError(t, err)

	repo := newMockRepository()
	products := &stubProducts{known: map[uint]bool{1: true, 2: true, 3: true}}
	return NewService(logger, codec, repo, products), repo
}

func itemsByProduct(view *View) map[uint]int {
	out := make(map[uint]int, len(view.Items))
	for _, item := range view.Items {
		out[item.ProductID] = item.Quantity
	}
	return out
}

func TestService_AddItem(t *testing.T) {
	t.Run("creates the cart on first add", func(t *testing.T) {
		svc, _ := newTestCartService(t)

		view, err := svc.AddItem(7, 1, 2)
		assert.NoError(t, err)
		assert.Equal(t, uint(7), view.UserID)
		assert.Equal(t, map[uint]int{1: 2}, itemsByProduct(view))
	})

	t.Run("merges quantities into an existing line", func(t *testing.T) {
		svc, _ := newTestCartService(t)

		_, err := svc.AddItem(7, 1, 2)
		assert.NoError(t, err)
		view, err := svc.AddItem(7, 1, 3)
		assert.NoError(t, err)

		// One line, quantities summed, not two lines.
		assert.Len(t, view.Items, 1)
		assert.Equal(t, map[uint]int{1: 5}, itemsByProduct(view))
	})

	t.Run("keeps distinct products on separate lines", func(t *testing.T) {
		svc, _ := newTestCartService(t)

		_, err := svc.AddItem(7, 1, 2)
		assert.NoError(t, err)
		view, err := svc.AddItem(7, 2, 1)
		assert.NoError(t, err)
		assert.Equal(t, map[uint]int{1: 2, 2: 1}, itemsByProduct(view))
	})

	t.Run("rejects unknown product", func(t *testing.T) {
		svc, _ := newTestCartService(t)

		_, err := svc.AddItem(7, 99, 1)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		svc, _ := newTestCartService(t)

		_, err := svc.AddItem(7, 1, 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
		_, err = svc.AddItem(7, 1, -3)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("stores ciphertext, not the product id", func(t *testing.T) {
		svc, repo := newTestCartService(t)

		_, err := svc.AddItem(7, 1, 2)
		assert.NoError(t, err)

		stored := repo.carts[7]
		assert.Len(t, stored.Items, 1)
		assert.NotEqual(t, "1", stored.Items[0].Product)
	})

	t.Run("retries through version conflicts", func(t *testing.T) {
		svc, repo := newTestCartService(t)
		_, err := svc.AddItem(7, 1, 1)
		assert.NoError(t, err)

		repo.conflicts = 2
		view, err := svc.AddItem(7, 1, 1)
		assert.NoError(t, err)
		assert.Equal(t, map[uint]int{1: 2}, itemsByProduct(view))
	})

	t.Run("gives up after exhausting retries", func(t *testing.T) {
		svc, repo := newTestCartService(t)
		_, err := svc.AddItem(7, 1, 1)
		assert.NoError(t, err)

		repo.conflicts = maxSaveAttempts
		_, err = svc.AddItem(7, 1, 1)
		assert.ErrorIs(t, err, ErrVersionConflict)
	})
}

func TestService_UpdateItem(t *testing.T) {
	t.Run("overwrites the quantity", func(t *testing.T) {
		svc, _ := newTestCartService(t)
		_, err := svc.AddItem(7, 1, 2)
		assert.NoError(t, err)

		view, err := svc.UpdateItem(7, 1, 9)
		assert.NoError(t, err)
		assert.Equal(t, map[uint]int{1: 9}, itemsByProduct(view))
	})

	t.Run("missing line leaves the cart unchanged", func(t *testing.T) {
		svc, _ := newTestCartService(t)
		_, err := svc.AddItem(7, 1, 2)
		assert.NoError(t, err)

		_, err = svc.UpdateItem(7, 2, 9)
		assert.ErrorIs(t, err, ErrItemNotFound)

		view, err := svc.Get(7)
		assert.NoError(t, err)
		assert.Equal(t, map[uint]int{1: 2}, itemsByProduct(view))
	})

	t.Run("absent cart", func(t *testing.T) {
		svc, _ := newTestCartService(t)

		_, err := svc.UpdateItem(7, 1, 9)
		assert.ErrorIs(t, err, ErrCartNotFound)
	})
}

func TestService_RemoveItem(t *testing.T) {
	t.Run("removes the matching line", func(t *testing.T) {
		svc, _ := newTestCartService(t)
		_, err := svc.AddItem(7, 1, 2)
		assert.NoError(t, err)
		_, err = svc.AddItem(7, 2, 1)
		assert.NoError(t, err)

		view, err := svc.RemoveItem(7, 1)
		assert.NoError(t, err)
		assert.Equal(t, map[uint]int{2: 1}, itemsByProduct(view))
	})

	t.Run("missing line leaves the cart unchanged", func(t *testing.T) {
		svc, _ := newTestCartService(t)
		_, err := svc.AddItem(7, 1, 2)
		assert.NoError(t, err)

		_, err = svc.RemoveItem(7, 2)
		assert.ErrorIs(t, err, ErrItemNotFound)

		view, err := svc.Get(7)
		assert.NoError(t, err)
		assert.Equal(t, map[uint]int{1: 2}, itemsByProduct(view))
	})
}

func TestService_Clear(t *testing.T) {
	t.Run("empties the cart", func(t *testing.T) {
		svc, _ := newTestCartService(t)
		_, err := svc.AddItem(7, 1, 2)
		assert.NoError(t, err)

		assert.NoError(t, svc.Clear(7))

		view, err := svc.Get(7)
		assert.NoError(t, err)
		assert.Empty(t, view.Items)
	})

	t.Run("idempotent", func(t *testing.T) {
		svc, _ := newTestCartService(t)
		_, err := svc.AddItem(7, 1, 2)
		assert.NoError(t, err)

		assert.NoError(t, svc.Clear(7))
		assert.NoError(t, svc.Clear(7))
	})

	t.Run("absent cart succeeds", func(t *testing.T) {
		svc, _ := newTestCartService(t)
		assert.NoError(t, svc.Clear(7))
	})
}

func TestService_Get(t *testing.T) {
	t.Run("absent cart", func(t *testing.T) {
		svc, _ := newTestCartService(t)

		_, err := svc.Get(7)
		assert.ErrorIs(t, err, ErrCartNotFound)
	})

	t.Run("skips undecodable lines", func(t *testing.T) {
		svc, repo := newTestCartService(t)
		_, err := svc.AddItem(7, 1, 2)
		assert.NoError(t, err)

		repo.carts[7].Items = append(repo.carts[7].Items,
			CartItem{CartID: repo.carts[7].ID, Product: "not-a-ciphertext", Quantity: 1})

		view, err := svc.Get(7)
		assert.NoError(t, err)
		assert.Equal(t, map[uint]int{1: 2}, itemsByProduct(view))
	})
}

func TestService_UndecodableLineTreatedAsAbsent(t *testing.T) {
	svc, repo := newTestCartService(t)
	_, err := svc.AddItem(7, 1, 2)
	assert.NoError(t, err)

	repo.carts[7].Items = append(repo.carts[7].Items,
		CartItem{CartID: repo.carts[7].ID, Product: "not-a-ciphertext", Quantity: 1})

	// Adding again merges into the decodable line and leaves the
	// broken one alone.
	view, err := svc.AddItem(7, 1, 1)
	assert.NoError(t, err)
	assert.Equal(t, map[uint]int{1: 3}, itemsByProduct(view))
	assert.Len(t, repo.carts[7].Items, 2)
}
