package model

// Movie represents a film in the catalogue.
type Movie struct {
	ID     uint     `json:"id" gorm:"primaryKey"`
	Title  string   `json:"title" gorm:"size:255;not null;index"`
	Genres []string `json:"genres" gorm:"type:text;serializer:json"`
	Year   int      `json:"year"`
}
