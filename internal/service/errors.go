package service

import "errors"

var (
	ErrNotFound       = errors.New("error not found")
	ErrAlreadyExists  = errors.New("error already exists")
	ErrInvalidRequest = errors.New("error invalid request")
	ErrEmptyPortfolio = errors.New("error empty portfolio")
)
