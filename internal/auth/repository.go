package auth

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

type Repository interface {
	CreateUser(user *User) error
	GetUserByID(id uint) (*User, error)
	GetUserByEmail(email string) (*User, error)
	ListUsers() ([]User, error)
	UpdateUser(user *User) error
	// SaveLoginState persists only the lockout bookkeeping columns.
	SaveLoginState(user *User) error
	// GetPasswordHistory returns up to limit prior hashes, newest first.
	GetPasswordHistory(userID uint, limit int) ([]PasswordHistory, error)
	// RotatePassword pushes the user's current hash into history,
	// evicts entries beyond keep, and installs newHash, atomically.
	RotatePassword(user *User, newHash string, keep int) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateUser(user *User) error {
	err := r.db.Create(user).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrUserExists
	}
	return err
}

func (r *repository) GetUserByID(id uint) (*User, error) {
	var user User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) GetUserByEmail(email string) (*User, error) {
	var user User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) ListUsers() ([]User, error) {
	var users []User
	if err := r.db.Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repository) UpdateUser(user *User) error {
	return r.db.Save(user).Error
}

func (r *repository) SaveLoginState(user *User) error {
	return r.db.Model(&User{}).Where("id = ?", user.ID).Updates(map[string]any{
		"failed_login_attempts": user.FailedLoginAttempts,
		"locked_until":          user.LockedUntil,
	}).Error
}

func (r *repository) GetPasswordHistory(userID uint, limit int) ([]PasswordHistory, error) {
	var entries []PasswordHistory
	err := r.db.Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) RotatePassword(user *User, newHash string, keep int) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&PasswordHistory{UserID: user.ID, Hash: user.PasswordHash}).Error; err != nil {
			return err
		}

		var stale []uint
		err := tx.Model(&PasswordHistory{}).
			Where("user_id = ?", user.ID).
			Order("id DESC").
			Offset(keep).
			Pluck("id", &stale).Error
		if err != nil {
			return err
		}
		if len(stale) > 0 {
			if err := tx.Delete(&PasswordHistory{}, stale).Error; err != nil {
				return err
			}
		}

		return tx.Model(&User{}).Where("id = ?", user.ID).
			Update("password_hash", newHash).Error
	})
}
