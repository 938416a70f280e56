package weight

import "errors"

// Module errors.
var (
	ErrEntryNotFound     = errors.New("weight entry not found")
	ErrImplausibleWeight = errors.New("weight out of plausible range")
)
