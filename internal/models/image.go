package models

import "time"

// Image is the metadata record for an uploaded image. Binary storage is
// handled elsewhere; the storage key locates the blob.
type Image struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Filename    string  `json:"filename" gorm:"type:varchar(255);not null"`
	Description *string `json:"description,omitempty" gorm:"type:varchar(5000)"`
	MimeType    *string `json:"mimeType,omitempty" gorm:"type:varchar(100)"`
	StorageKey  string  `json:"storageKey" gorm:"uniqueIndex;type:varchar(36);not null"`

	UserID uint `json:"userId" gorm:"not null"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ImageInput is the partial payload for image creation and update. The
// storage key is assigned by the service and cannot be set by clients.
type ImageInput struct {
	Filename    *string `json:"filename"`
	Description *string `json:"description"`
	MimeType    *string `json:"mimeType"`
	UserID      *uint   `json:"userId"`
}
