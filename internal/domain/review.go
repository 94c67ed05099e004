package domain

import "time"

// Score bounds for reviews.
const (
	MinScore = 1
	MaxScore = 10
)

// Review is a single user's scored opinion on a title. A user may hold
// at most one review per title.
type Review struct {
	ID             string
	TitleID        string
	AuthorID       string
	AuthorUsername string
	Text           string
	Score          int
	PubDate        time.Time
}

// Comment is a reply attached to a review.
type Comment struct {
	ID             string
	ReviewID       string
	AuthorID       string
	AuthorUsername string
	Text           string
	PubDate        time.Time
}

// EmailCode is the ephemeral one-time code issued for an email address.
// At most one code is outstanding per email; a new request overwrites
// the previous one.
type EmailCode struct {
	Email     string
	Code      string
	UpdatedAt time.Time
}
