package models

import (
	"time"

	"github.com/google/uuid"
)

// FamilyMember owns inventory entries.
type FamilyMember struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null;unique"`
	AvatarURL *string   `gorm:"column:avatar_url"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (FamilyMember) TableName() string { return "family_members" }
