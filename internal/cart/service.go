package cart

import (
	"errors"
	"strconv"

	"go.uber.org/zap"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrProductNotFound = errors.New("product not found")
)

// ProductFinder is the slice of the catalog the cart needs: existence
// checks on add.
type ProductFinder interface {
	ProductExists(id uint) (bool, error)
}

// How many times a read-modify-write cycle is retried when the
// optimistic version check fails under concurrent mutation.
const maxSaveAttempts = 3

type Service struct {
	log        *zap.Logger
	codec      *Codec
	repository Repository
	products   ProductFinder
}

func NewService(log *zap.Logger, codec *Codec, repo Repository, products ProductFinder) *Service {
	return &Service{
		log:        log,
		codec:      codec,
		repository: repo,
		products:   products,
	}
}

// ItemView is a cart line with the product id decoded for
// presentation.
type ItemView struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

type View struct {
	ID     uint       `json:"id"`
	UserID uint       `json:"userId"`
	Items  []ItemView `json:"items"`
}

// AddItem merges quantity into an existing line for the product or
// appends a new encrypted line. The cart is created lazily on first
// add.
func (s *Service) AddItem(userID, productID uint, quantity int) (*View, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	exists, err := s.products.ProductExists(productID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrProductNotFound
	}

	plain := formatProductID(productID)

	var view *View
	err = s.withRetry(func() error {
		cart, err := s.repository.GetByUserID(userID)
		if errors.Is(err, ErrCartNotFound) {
			encoded, err := s.codec.Encode(plain)
			if err != nil {
				return err
			}
			cart = &Cart{
				UserID: userID,
				Items:  []CartItem{{Product: encoded, Quantity: quantity}},
			}
			if err := s.repository.Create(cart); err != nil {
				return err
			}
			view = s.view(cart)
			return nil
		}
		if err != nil {
			return err
		}

		if i := s.findItem(cart, plain); i >= 0 {
			cart.Items[i].Quantity += quantity
		} else {
			encoded, err := s.codec.Encode(plain)
			if err != nil {
				return err
			}
			cart.Items = append(cart.Items, CartItem{Product: encoded, Quantity: quantity})
		}

		if err := s.repository.SaveItems(cart); err != nil {
			return err
		}
		view = s.view(cart)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// UpdateItem overwrites the quantity of an existing line.
func (s *Service) UpdateItem(userID, productID uint, quantity int) (*View, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	plain := formatProductID(productID)

	var view *View
	err := s.withRetry(func() error {
		cart, err := s.repository.GetByUserID(userID)
		if err != nil {
			return err
		}

		i := s.findItem(cart, plain)
		if i < 0 {
			return ErrItemNotFound
		}
		cart.Items[i].Quantity = quantity

		if err := s.repository.SaveItems(cart); err != nil {
			return err
		}
		view = s.view(cart)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// RemoveItem splices the matching line out of the cart.
func (s *Service) RemoveItem(userID, productID uint) (*View, error) {
	plain := formatProductID(productID)

	var view *View
	err := s.withRetry(func() error {
		cart, err := s.repository.GetByUserID(userID)
		if err != nil {
			return err
		}

		i := s.findItem(cart, plain)
		if i < 0 {
			return ErrItemNotFound
		}
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)

		if err := s.repository.SaveItems(cart); err != nil {
			return err
		}
		view = s.view(cart)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Clear empties the cart. Clearing an empty or absent cart succeeds.
func (s *Service) Clear(userID uint) error {
	return s.withRetry(func() error {
		cart, err := s.repository.GetByUserID(userID)
		if errors.Is(err, ErrCartNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		cart.Items = nil
		return s.repository.SaveItems(cart)
	})
}

// Get loads the cart and decodes every line for presentation.
func (s *Service) Get(userID uint) (*View, error) {
	cart, err := s.repository.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	return s.view(cart), nil
}

// findItem returns the index of the line holding the product, or -1.
// Stored product fields are ciphertext and never byte-comparable, so
// every line is decoded and compared as plaintext. Lines that fail to
// decode are skipped as effectively absent.
func (s *Service) findItem(cart *Cart, plainProductID string) int {
	for i := range cart.Items {
		decoded, err := s.codec.Decode(cart.Items[i].Product)
		if err != nil {
			s.log.Warn("skipping undecodable cart line",
				zap.Uint("cart_id", cart.ID),
				zap.Error(err))
			continue
		}
		if decoded == plainProductID {
			return i
		}
	}
	return -1
}

func (s *Service) view(cart *Cart) *View {
	items := make([]ItemView, 0, len(cart.Items))
	for i := range cart.Items {
		decoded, err := s.codec.Decode(cart.Items[i].Product)
		if err != nil {
			continue
		}
		id, err := strconv.ParseUint(decoded, 10, 32)
		if err != nil {
			continue
		}
		items = append(items, ItemView{ProductID: uint(id), Quantity: cart.Items[i].Quantity})
	}
	return &View{ID: cart.ID, UserID: cart.UserID, Items: items}
}

func (s *Service) withRetry(op func() error) error {
	var err error
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		err = op()
		if !errors.Is(err, ErrVersionConflict) {
			return err
		}
	}
	return err
}

func formatProductID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
