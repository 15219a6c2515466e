package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrProfileNotFound is the expected "no row" outcome of a profile lookup.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProfileExists is returned when a profile insert hits the uniqueness constraint.
	ErrProfileExists = errors.New("profile already exists")
	// ErrNoIdentity means the request carries no valid session.
	ErrNoIdentity = errors.New("no authenticated identity")
	// ErrAttemptNotFound is returned when a user has no attempt for a quiz.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrStaleView is returned for requests issued from a question that is no longer current.
	ErrStaleView = errors.New("stale question token")
	// ErrNoSelection is returned when submitting without a selected option.
	ErrNoSelection = errors.New("no option selected")
	// ErrAlreadySubmitted is returned when changing an answer after submission.
	ErrAlreadySubmitted = errors.New("answer already submitted")
	// ErrNotSubmitted is returned when advancing before the answer is submitted.
	ErrNotSubmitted = errors.New("answer not submitted")
	// ErrAttemptComplete is returned for answer operations on a finished attempt.
	ErrAttemptComplete = errors.New("attempt already complete")
	// ErrInvalidRecord marks a datastore record missing required fields.
	ErrInvalidRecord = errors.New("invalid record")
)
