package models

import "time"

// User owns characters and images. The password hash is never serialized.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"type:varchar(50);not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;type:varchar(254);not null"`
	PasswordHash string     `json:"-" gorm:"type:varchar(255);not null"`
	IsVerified   bool       `json:"isVerified" gorm:"not null;default:false"`
	IsActive     bool       `json:"isActive" gorm:"not null;default:true"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserInput is the partial payload for user creation and update. Password is
// plaintext on input and hashed by the service before persisting.
type UserInput struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Password   *string `json:"password"`
	IsVerified *bool   `json:"isVerified"`
	IsActive   *bool   `json:"isActive"`
}
