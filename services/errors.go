// services/errors.go
package services

import "errors"

var (
	// ErrInvalidRequest marks input the caller must fix (bad dates, unknown
	// scaling measure).
	ErrInvalidRequest = errors.New("invalid request")

	// ErrHistoryDisabled is returned when no query log store is configured.
	ErrHistoryDisabled = errors.New("query history is not enabled")
)
