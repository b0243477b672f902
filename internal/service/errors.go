package service

import (
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Error kinds. Handlers map them to HTTP status codes with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
)

// Error carries a client-facing message for one of the kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func validationError(msg string) error { return &Error{Kind: ErrValidation, Message: msg} }

func unauthenticated(msg string) error { return &Error{Kind: ErrUnauthenticated, Message: msg} }

func forbidden(msg string) error { return &Error{Kind: ErrForbidden, Message: msg} }

func notFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

func parseID(hex, what string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(hex)
	if err != nil {
		return bson.ObjectID{}, validationError("invalid " + what + " id")
	}
	return id, nil
}

// callerID parses the user id taken from a verified session token.
func callerID(hex string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(hex)
	if err != nil {
		return bson.ObjectID{}, unauthenticated("invalid token subject")
	}
	return id, nil
}
