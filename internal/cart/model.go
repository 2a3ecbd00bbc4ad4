package cart

import "time"

// Cart is one user's cart document. Version implements optimistic
// concurrency: every save checks and bumps it, so concurrent
// read-modify-write cycles cannot silently overwrite each other.
type Cart struct {
	ID        uint       `gorm:"primaryKey"`
	UserID    uint       `gorm:"uniqueIndex;not null"`
	Version   uint       `gorm:"not null;default:0"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Cart) TableName() string {
	return "carts"
}

// CartItem is one line of a cart. Product holds the encrypted product
// id, never the plaintext.
type CartItem struct {
	ID       uint   `gorm:"primaryKey"`
	CartID   uint   `gorm:"index;not null"`
	Product  string `gorm:"not null"`
	Quantity int    `gorm:"not null"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
