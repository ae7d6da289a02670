package errors

import "errors"

var ErrNotFound = errors.New("resource not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUnauthorized = errors.New("user is not authorized")
var ErrForbidden = errors.New("operation is forbidden for user")
var ErrEmailTaken = errors.New("email is already registered")
var ErrEventFull = errors.New("event is at capacity")
var ErrAlreadyCancelled = errors.New("registration is already cancelled")

// ErrRevocationUnavailable is returned when a token cannot be revoked.
var ErrRevocationUnavailable = errors.New("token revocation store is unavailable")

// ErrTicketExhausted is returned when every generated ticket id collided.
var ErrTicketExhausted = errors.New("could not allocate a unique ticket id")
