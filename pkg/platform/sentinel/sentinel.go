// Package sentinel holds the facts stores report about records. Domain code
// translates them into coded errors.
package sentinel

import "errors"

var (
	// ErrNotFound: no record under the key.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyUsed: the key of an insert-once record is taken.
	ErrAlreadyUsed = errors.New("already used")
)
