package model

import (
	"time"

	"github.com/google/uuid"
)

// User is an identity-provider account. Sign-up creates it unconfirmed with a
// one-time confirmation code; sign-in is rejected until confirmed.
type User struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email            string    `gorm:"uniqueIndex;not null"`
	PasswordHash     string    `gorm:"not null"`
	ConfirmationCode *string
	Confirmed        bool `gorm:"not null;default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
