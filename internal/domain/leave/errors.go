package leave

import "errors"

var (
	ErrTimeOffRequestNotFound = errors.New("time-off request not found")
	ErrInvalidRequestType     = errors.New("invalid time-off request type")
)
