package correction

import "errors"

// Correction domain errors
var (
	ErrRequestNotFound  = errors.New("correction request not found")
	ErrAlreadyProcessed = errors.New("correction request has already been approved or rejected")
)
