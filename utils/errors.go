package utils

import errors "github.com/go-errors/errors"

var (
	NotFoundError      = errors.New("NotFoundError")
	InvalidConfigError = errors.New("InvalidConfigError")
	InvalidArgError    = errors.New("InvalidArgError")
)
