package service

import (
	"github.com/pkg/errors"
)

var (
	// ErrDuplicate is a uniqueness-constraint rejection: username on
	// registration, student email on create/update.
	ErrDuplicate = errors.New("duplicate key")

	// ErrValidation marks input rejected before any storage call was made.
	ErrValidation = errors.New("validation failed")
)

func invalid(err error) error {
	return errors.Wrap(ErrValidation, err.Error())
}
