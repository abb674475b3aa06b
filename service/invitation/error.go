package invitation

import (
	"errors"
	"fmt"
	"net/http"
)

const errFmt = "%s: %s"

// Common errors for Invitation validations and service implementations.
var (
	ErrAlreadyMember     = errors.New("already a member")
	ErrInvalidInvitation = errors.New("invalid invitation")
	ErrTerminalStatus    = errors.New("invitation already resolved")
)

// Transport errors derived from HTTP-like status codes.
var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrValidation       = errors.New("validation failed")
	ErrQuotaExceeded    = errors.New("quota exceeded")
	ErrServer           = errors.New("server error")
	ErrUnknown          = errors.New("unknown error")
	ErrNetwork          = errors.New("network error")
)

// Error carries a sentinel together with detail, which for transport errors
// is the server-supplied message.
type Error struct {
	err error
	msg string
}

func (e Error) Error() string {
	if e.msg == "" {
		return e.err.Error()
	}

	return fmt.Sprintf(errFmt, e.err.Error(), e.msg)
}

// ErrorFromStatus maps a transport status code to the corresponding sentinel,
// keeping the server-supplied message. A zero status means the request never
// produced a response.
func ErrorFromStatus(status int, msg string) error {
	var err error

	switch status {
	case 0:
		err = ErrNetwork
	case http.StatusBadRequest:
		err = ErrInvalidRequest
	case http.StatusUnauthorized:
		err = ErrUnauthorized
	case http.StatusForbidden:
		err = ErrPermissionDenied
	case http.StatusNotFound:
		err = ErrNotFound
	case http.StatusConflict:
		err = ErrConflict
	case http.StatusUnprocessableEntity:
		err = ErrValidation
	case http.StatusTooManyRequests:
		err = ErrQuotaExceeded
	case http.StatusInternalServerError:
		err = ErrServer
	default:
		err = ErrUnknown
	}

	return &Error{err: err, msg: msg}
}

// Message returns the server-supplied message carried by err, or fallback
// when there is none. Network errors never carry a server message, their
// detail stays in Error() only.
func Message(err error, fallback string) string {
	switch e := err.(type) {
	case *Error:
		if e.msg != "" && e.err != ErrNetwork {
			return e.msg
		}
	}

	return fallback
}

// IsAlreadyMember indicates if err is ErrAlreadyMember.
func IsAlreadyMember(err error) bool {
	return unwrapError(err) == ErrAlreadyMember
}

// IsConflict indicates if err is ErrConflict.
func IsConflict(err error) bool {
	return unwrapError(err) == ErrConflict
}

// IsInvalidRequest indicates if err is ErrInvalidRequest.
func IsInvalidRequest(err error) bool {
	return unwrapError(err) == ErrInvalidRequest
}

// IsInvalidInvitation indicates if err is ErrInvalidInvitation.
func IsInvalidInvitation(err error) bool {
	return unwrapError(err) == ErrInvalidInvitation
}

// IsNetwork indicates if err is ErrNetwork.
func IsNetwork(err error) bool {
	return unwrapError(err) == ErrNetwork
}

// IsNotFound indicates if err is ErrNotFound.
func IsNotFound(err error) bool {
	return unwrapError(err) == ErrNotFound
}

// IsPermissionDenied indicates if err is ErrPermissionDenied.
func IsPermissionDenied(err error) bool {
	return unwrapError(err) == ErrPermissionDenied
}

// IsQuotaExceeded indicates if err is ErrQuotaExceeded.
func IsQuotaExceeded(err error) bool {
	return unwrapError(err) == ErrQuotaExceeded
}

// IsServer indicates if err is ErrServer.
func IsServer(err error) bool {
	return unwrapError(err) == ErrServer
}

// IsTerminalStatus indicates if err is ErrTerminalStatus.
func IsTerminalStatus(err error) bool {
	return unwrapError(err) == ErrTerminalStatus
}

// IsUnauthorized indicates if err is ErrUnauthorized.
func IsUnauthorized(err error) bool {
	return unwrapError(err) == ErrUnauthorized
}

// IsUnknown indicates if err is ErrUnknown.
func IsUnknown(err error) bool {
	return unwrapError(err) == ErrUnknown
}

// IsValidation indicates if err is ErrValidation.
func IsValidation(err error) bool {
	return unwrapError(err) == ErrValidation
}

func unwrapError(err error) error {
	switch e := err.(type) {
	case *Error:
		return e.err
	}

	return err
}

func wrapError(err error, format string, args ...interface{}) error {
	return &Error{
		err: err,
		msg: fmt.Sprintf(format, args...),
	}
}
