package services

import "errors"

var (
	ErrEmptyTitle        = errors.New("challenge title is required")
	ErrInvalidCategory   = errors.New("unknown challenge category")
	ErrEmptyReflection   = errors.New("reflection text is required")
	ErrChallengeNotFound = errors.New("challenge not found")
	ErrAlreadyCompleted  = errors.New("challenge already completed")
	ErrFeedItemNotFound  = errors.New("feed item not found")
)
