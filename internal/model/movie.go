package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Genre is embedded in every movie of that genre.
type Genre struct {
	Name        string `json:"name" bson:"name" gorm:"size:255;index"`
	Description string `json:"description" bson:"description" gorm:"type:text"`
}

// Director is embedded in every movie they directed.
type Director struct {
	Name      string `json:"name" bson:"name" gorm:"size:255;index"`
	Bio       string `json:"bio" bson:"bio" gorm:"type:text"`
	BirthYear int    `json:"birthYear,omitempty" bson:"birthYear,omitempty"`
}

// Movie is a catalog entry. The catalog is read-only through the API.
type Movie struct {
	ID          string    `json:"id" bson:"_id,omitempty" gorm:"type:char(36);primaryKey"`
	Title       string    `json:"title" bson:"title" gorm:"size:255;uniqueIndex;not null"`
	Description string    `json:"description" bson:"description" gorm:"type:text"`
	Genre       Genre     `json:"genre" bson:"genre" gorm:"embedded;embeddedPrefix:genre_"`
	Director    Director  `json:"director" bson:"director" gorm:"embedded;embeddedPrefix:director_"`
	ImageURL    string    `json:"imageUrl" bson:"imageUrl" gorm:"size:1024"`
	Featured    bool      `json:"featured" bson:"featured" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"-" bson:"createdAt"`
	UpdatedAt   time.Time `json:"-" bson:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (m *Movie) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
