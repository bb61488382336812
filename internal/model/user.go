package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered account with its favorite-movie list.
type User struct {
	ID             string     `json:"id" bson:"_id,omitempty" gorm:"type:char(36);primaryKey"`
	Username       string     `json:"username" bson:"username" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash   string     `json:"-" bson:"password" gorm:"column:password;size:255;not null"` // Never expose in JSON
	Email          string     `json:"email" bson:"email" gorm:"size:255;uniqueIndex;not null"`
	Birthday       *time.Time `json:"birthday" bson:"birthday,omitempty"`
	FavoriteMovies []string   `json:"favoriteMovies" bson:"favoriteMovies" gorm:"serializer:json;type:text"`
	CreatedAt      time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt" bson:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// UserUpdate carries the profile fields a user may change. Birthday and
// PasswordHash are left untouched when nil/empty.
type UserUpdate struct {
	Username     string
	Email        string
	Birthday     *time.Time
	PasswordHash string
}

// Apply copies the update onto u.
func (up UserUpdate) Apply(u *User) {
	u.Username = up.Username
	u.Email = up.Email
	if up.Birthday != nil {
		u.Birthday = up.Birthday
	}
	if up.PasswordHash != "" {
		u.PasswordHash = up.PasswordHash
	}
}

// ParseDate accepts an ISO-8601 calendar date (2006-01-02) or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
