package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when a unique constraint rejects the write.
	ErrDuplicate = errors.New("persistence: duplicate")
	// ErrConstraintViolation is returned for CHECK or foreign key failures.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrSelfBooking is returned when a member tries to book their own room post.
	ErrSelfBooking = errors.New("persistence: cannot book own room post")
)
