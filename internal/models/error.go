package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// ErrNotificationFailed marks a submission whose emails could not be sent
	ErrNotificationFailed = errors.New("notification dispatch failed")
)
