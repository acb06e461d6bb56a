package graph

import (
	"errors"

	"blogql/web/service"
)

// GraphQL error codes surfaced to clients through the extensions map.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeBadRequest      = "BAD_REQUEST"
)

// ClientError is an error the client is meant to act on. Anything else
// bubbling out of a resolver is treated as unhandled: logged with its
// response path and returned without internal detail.
type ClientError struct {
	Message string
	Code    string
}

func (e *ClientError) Error() string {
	return e.Message
}

// Extensions implements gqlerrors.ExtendedError so the code lands in the
// response's error extensions.
func (e *ClientError) Extensions() map[string]any {
	return map[string]any{"code": e.Code}
}

func NewNotFound(message string) *ClientError {
	return &ClientError{Message: message, Code: CodeNotFound}
}

func NewBadRequest(message string) *ClientError {
	return &ClientError{Message: message, Code: CodeBadRequest}
}

func NewForbidden(message string) *ClientError {
	return &ClientError{Message: message, Code: CodeForbidden}
}

func NewUnauthenticated(message string) *ClientError {
	return &ClientError{Message: message, Code: CodeUnauthenticated}
}

// asClientError maps the service layer's entity errors onto client-visible
// GraphQL errors and passes everything else through untouched.
func asClientError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCommentNotFound):
		return NewNotFound(err.Error())
	case errors.Is(err, service.ErrUserReferenced):
		return NewBadRequest(err.Error())
	default:
		return err
	}
}
