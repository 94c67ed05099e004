package domain

import "errors"

var (
	// ErrUnknownRole indicates a verbose role name matched none of the
	// enumerated roles.
	ErrUnknownRole = errors.New("domain: unknown role")

	// ErrNoReviews indicates a rating recompute over an empty review set.
	ErrNoReviews = errors.New("domain: title has no reviews")

	// ErrDisallowedField indicates a profile update touched a field
	// outside the allowed set.
	ErrDisallowedField = errors.New("domain: field is not allowed to be modified")
)
