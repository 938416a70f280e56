package diary

import "errors"

// Module errors.
var (
	ErrEntryNotFound   = errors.New("diary entry not found")
	ErrInvalidMealType = errors.New("invalid meal type")
	ErrInvalidPhoto    = errors.New("invalid photo payload")
)
