package cart

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrItemNotFound    = errors.New("item not found in cart")
	ErrVersionConflict = errors.New("cart was modified concurrently")
)

type Repository interface {
	GetByUserID(userID uint) (*Cart, error)
	Create(cart *Cart) error
	// SaveItems replaces the cart's line items. The write only lands if
	// the cart's version still matches the loaded one; on success the
	// version is bumped.
	SaveItems(cart *Cart) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByUserID(userID uint) (*Cart, error) {
	var cart Cart
	err := r.db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return &cart, nil
}

func (r *repository) Create(cart *Cart) error {
	return r.db.Create(cart).Error
}

func (r *repository) SaveItems(cart *Cart) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Cart{}).
			Where("id = ? AND version = ?", cart.ID, cart.Version).
			Update("version", cart.Version+1)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrVersionConflict
		}

		if err := tx.Where("cart_id = ?", cart.ID).Delete(&CartItem{}).Error; err != nil {
			return err
		}

		for i := range cart.Items {
			item := CartItem{
				CartID:   cart.ID,
				Product:  cart.Items[i].Product,
				Quantity: cart.Items[i].Quantity,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}

		return nil
	})
}
