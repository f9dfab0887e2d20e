package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultPhoto is the placeholder assigned to accounts that never
// uploaded a picture.
const DefaultPhoto = "default.png"

type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Photo        string    `json:"photo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
