package attendance

import "errors"

var (
	ErrMonthFactNotFound = errors.New("attendance month fact not found")
	ErrInvalidMonth      = errors.New("invalid month, expected YYYY-MM")
)
