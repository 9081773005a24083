package types

import "errors"

// ClientError is a rejection that must surface to the caller with a stable
// description and is never retried by the server.
type ClientError struct {
	Description string
}

func (e *ClientError) Error() string {
	return e.Description
}

func NewClientError(description string) *ClientError {
	return &ClientError{Description: description}
}

func IsClientError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce)
}

var (
	ErrUnauthorized    = NewClientError("unauthorized")
	ErrBadEnvelope     = NewClientError("wrong envelope format")
	ErrTooLarge        = NewClientError("too large message")
	ErrBadTimestamp    = NewClientError("wrong timestamp")
	ErrBadDomain       = NewClientError("wrong domain")
	ErrUnknownType     = NewClientError("unknown message type")
	ErrWrongSignature  = NewClientError("wrong signature")
	ErrWrongAlias      = NewClientError("wrong alias")
	ErrAliasNotAllowed = NewClientError("alias not allowed")
	ErrStaleVote       = NewClientError("already voted with a newer timestamp")
	ErrStaleVoteTie    = NewClientError("already voted with the same timestamp")
	ErrDuplicate       = NewClientError("request already being processed")
	ErrPinningFailed   = errors.New("pinning failed")
)
