package product

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductExists   = errors.New("product already exists")
)

type Repository interface {
	Create(product *Product) error
	GetByID(id uint) (*Product, error)
	GetByTitle(title string) (*Product, error)
	List() ([]Product, error)
	Update(product *Product) error
	Delete(id uint) error
	ProductExists(id uint) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(product *Product) error {
	err := r.db.Create(product).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrProductExists
	}
	return err
}

func (r *repository) GetByID(id uint) (*Product, error) {
	var product Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *repository) GetByTitle(title string) (*Product, error) {
	var product Product
	if err := r.db.Where("title = ?", title).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *repository) List() ([]Product, error) {
	var products []Product
	if err := r.db.Order("id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) Update(product *Product) error {
	return r.db.Save(product).Error
}

func (r *repository) Delete(id uint) error {
	result := r.db.Delete(&Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) ProductExists(id uint) (bool, error) {
	var count int64
	if err := r.db.Model(&Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
