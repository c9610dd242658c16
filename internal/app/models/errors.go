package models

import "errors"

// Domain specific errors.
var (
	ErrNotFound         = errors.New("requested item not found")
	ErrConflict         = errors.New("item already exists or conflict")
	ErrUnauthenticated  = errors.New("authentication required or invalid credentials")
	ErrForbidden        = errors.New("action forbidden")
	ErrBadRequest       = errors.New("bad request")
	ErrValidation       = errors.New("validation failed")
	ErrNoActiveSession  = errors.New("no active chat session")
	ErrSearchSuperseded = errors.New("search superseded by a newer request")
)
