package domain

import "time"

// Category groups titles by kind of media ("Movies", "Books", ...).
type Category struct {
	ID   string
	Name string
	Slug string
}

// Genre is a thematic tag attached to titles.
type Genre struct {
	ID   string
	Name string
	Slug string
}

// Title represents a reviewable piece of media. Rating is derived from
// review scores and is nil while the title has no reviews.
type Title struct {
	ID          string
	Name        string
	Year        int
	Description string
	Category    Category
	Genres      []Genre
	Rating      *float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
