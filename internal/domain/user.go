package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an account record owning a set of category preferences.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Categories   []Category `json:"categories"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// PreferredCategories falls back to the default set when the user saved none.
func (u User) PreferredCategories() []Category {
	if len(u.Categories) == 0 {
		return DefaultCategories()
	}
	return u.Categories
}
