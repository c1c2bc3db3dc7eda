package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrAtCapacity is returned when the import queue is full.
	ErrAtCapacity = errors.New("import capacity exceeded")
	// ErrNotReady is returned for resources that exist but are not final yet.
	ErrNotReady = errors.New("not ready")
	// ErrUnsupportedFormat is returned for uploads that are neither csv nor xlsx.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)
