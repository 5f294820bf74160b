package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrConfigNotFound   = errors.New("no effective employee config")
)
