package domain

import "errors"

var (
	ErrNotFound            = errors.New("not found")
	ErrBadRequest          = errors.New("bad request")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrValidation          = errors.New("validation error")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInternal            = errors.New("internal server error")
	ErrInvalidStrategy     = errors.New("invalid strategy")
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
	ErrMalformedMessage    = errors.New("malformed message")
	ErrUnroutable          = errors.New("no queue bound for routing key")
	ErrBrokerClosed        = errors.New("broker closed")
	ErrUndelivered         = errors.New("notification reached no observer")
)
