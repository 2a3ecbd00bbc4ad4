package product

import (
	"errors"

	"go.uber.org/zap"
)

type Service struct {
	log        *zap.Logger
	repository Repository
}

func NewService(log *zap.Logger, repo Repository) *Service {
	return &Service{
		log:        log,
		repository: repo,
	}
}

type Input struct {
	Title       string
	Description string
	Price       string
	Image       string
}

func (s *Service) Create(in Input) (*Product, error) {
	if _, err := s.repository.GetByTitle(in.Title); err == nil {
		return nil, ErrProductExists
	} else if !errors.Is(err, ErrProductNotFound) {
		return nil, err
	}

	product := &Product{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
	}
	if err := s.repository.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) Get(id uint) (*Product, error) {
	return s.repository.GetByID(id)
}

func (s *Service) List() ([]Product, error) {
	return s.repository.List()
}

func (s *Service) Update(id uint, in Input) (*Product, error) {
	product, err := s.repository.GetByID(id)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		product.Title = in.Title
	}
	if in.Description != "" {
		product.Description = in.Description
	}
	if in.Price != "" {
		product.Price = in.Price
	}
	if in.Image != "" {
		product.Image = in.Image
	}

	if err := s.repository.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) Delete(id uint) error {
	return s.repository.Delete(id)
}
