package models

import "errors"

// Custom errors
var (
	ErrInsufficientData  = errors.New("no training examples available")
	ErrModelNotTrained   = errors.New("model has not been trained")
	ErrMalformedFeatures = errors.New("malformed feature vector")
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateKey      = errors.New("duplicate key violation")
	ErrInvalidID         = errors.New("invalid ID format")
)
