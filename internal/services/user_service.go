package services

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/apperrors"
	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/listing"
	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/models"
	"github.com/antoniocolagreco/test-cline-devstral-sub001/internal/validation"
)

const (
	userNameMaxLen = 50
	emailMaxLen    = 254
	passwordMinLen = 8
	// bcrypt rejects passwords longer than 72 bytes.
	passwordMaxLen = 72
	// passwordHashCost is the bcrypt cost factor applied to every stored hash.
	passwordHashCost = 12
)

// ErrInvalidCredentials is returned by Authenticate for an unknown email, a
// wrong password or a deactivated account. The handler maps it to 401 without
// revealing which check failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

var userFields = map[string]string{
	"name":  "name",
	"email": "email",
}

// UserService handles business logic for users, including password hashing
// and credential verification.
type UserService struct {
	db *gorm.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// GetMany returns a page of users.
func (s *UserService) GetMany(params listing.Params) ([]models.User, listing.Pagination, error) {
	return listing.Find[models.User](s.db, params, userFields, "name")
}

// GetOne returns the user with the given id, or nil when no row matches.
func (s *UserService) GetOne(id uint) (*models.User, error) {
	if err := validation.RequireID("user id", id); err != nil {
		return nil, err
	}
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}

// validatePassword checks a plaintext password's length bounds.
func validatePassword(value *string, required bool) (string, bool, error) {
	if value == nil {
		if required {
			return "", false, apperrors.Validation("password is required")
		}
		return "", false, nil
	}
	if len(*value) < passwordMinLen {
		return "", false, apperrors.Validation("password must be at least %d characters", passwordMinLen)
	}
	if len(*value) > passwordMaxLen {
		return "", false, apperrors.Validation("password cannot exceed %d characters", passwordMaxLen)
	}
	return *value, true, nil
}

// Create validates the input, hashes the password, checks email uniqueness
// and inserts the user. New users start unverified and active.
func (s *UserService) Create(input models.UserInput) (*models.User, error) {
	name, _, err := validation.Name("name", input.Name, true, userNameMaxLen)
	if err != nil {
		return nil, err
	}
	email, _, err := validation.Email("email", input.Email, true, emailMaxLen)
	if err != nil {
		return nil, err
	}
	password, _, err := validatePassword(input.Password, true)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		IsVerified:   false,
		IsActive:     true,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check email availability: %w", err)
		}
		if count > 0 {
			return apperrors.Conflict("user with email '%s' already exists", email)
		}
		if err := tx.Create(&user).Error; err != nil {
			return translateCreateError(err, "user", "email", email)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update applies the provided fields to the user with the given id. A new
// password is rehashed; a changed email is checked for uniqueness. A missing
// row yields a nil result rather than an error.
func (s *UserService) Update(id uint, input models.UserInput) (*models.User, error) {
	if err := validation.RequireID("user id", id); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if input.Name != nil {
		name, _, err := validation.Name("name", input.Name, false, userNameMaxLen)
		if err != nil {
			return nil, err
		}
		updates["name"] = name
	}
	if input.Email != nil {
		email, _, err := validation.Email("email", input.Email, false, emailMaxLen)
		if err != nil {
			return nil, err
		}
		updates["email"] = email
	}
	if input.Password != nil {
		password, _, err := validatePassword(input.Password, false)
		if err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updates["password_hash"] = string(hash)
	}
	if input.IsVerified != nil {
		updates["is_verified"] = *input.IsVerified
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	var user *models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.User
		if err := tx.First(&existing, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to load user %d: %w", id, err)
		}
		if email, ok := updates["email"].(string); ok && email != existing.Email {
			var count int64
			if err := tx.Model(&models.User{}).Where("email = ? AND id <> ?", email, id).Count(&count).Error; err != nil {
				return fmt.Errorf("failed to check email availability: %w", err)
			}
			if count > 0 {
				return apperrors.Conflict("user with email '%s' already exists", email)
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apperrors.Conflict("user with email '%v' already exists", updates["email"])
				}
				return fmt.Errorf("failed to update user %d: %w", id, err)
			}
			if err := tx.First(&existing, id).Error; err != nil {
				return fmt.Errorf("failed to reload user %d: %w", id, err)
			}
		}
		user = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the user unless characters or images still reference them.
func (s *UserService) Delete(id uint) error {
	if err := validation.RequireID("user id", id); err != nil {
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("user", id)
			}
			return fmt.Errorf("failed to load user %d: %w", id, err)
		}

		characters, err := countRefs(tx, "characters", "user_id", id)
		if err != nil {
			return err
		}
		images, err := countRefs(tx, "images", "user_id", id)
		if err != nil {
			return err
		}
		if characters+images > 0 {
			return apperrors.Conflict(
				"cannot delete user '%s': referenced by %d characters and %d images",
				user.Email, characters, images)
		}

		if err := tx.Delete(&user).Error; err != nil {
			return fmt.Errorf("failed to delete user %d: %w", id, err)
		}
		return nil
	})
}

// Authenticate verifies an email/password pair against the stored hash. On
// success it records the login time and returns the user; every failure mode
// collapses into ErrInvalidCredentials.
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user by email: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.db.Model(&user).Update("last_login", now).Error; err != nil {
		return nil, fmt.Errorf("failed to record login time: %w", err)
	}
	user.LastLogin = &now
	return &user, nil
}
