package externalApi

import "errors"

var (
	ErrNotFound         = errors.New("error not found")
	ErrUnavailable      = errors.New("error external api unavailable")
	ErrUnexpectedStatus = errors.New("error unexpected response status")
)
