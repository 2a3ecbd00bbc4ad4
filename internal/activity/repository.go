package activity

import (
	"errors"

	"gorm.io/gorm"
)

var ErrActivityNotFound = errors.New("login activity not found")

type Repository interface {
	SaveLogin(record *LoginActivity) error
	SaveAudit(record *AuditLog) error
	ListLogins() ([]LoginActivity, error)
	DeleteLogin(id uint) error
	ListAudits() ([]AuditLog, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SaveLogin(record *LoginActivity) error {
	return r.db.Create(record).Error
}

func (r *repository) SaveAudit(record *AuditLog) error {
	return r.db.Create(record).Error
}

func (r *repository) ListLogins() ([]LoginActivity, error) {
	var records []LoginActivity
	if err := r.db.Order("timestamp DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) DeleteLogin(id uint) error {
	result := r.db.Delete(&LoginActivity{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrActivityNotFound
	}
	return nil
}

func (r *repository) ListAudits() ([]AuditLog, error) {
	var records []AuditLog
	if err := r.db.Order("timestamp DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
