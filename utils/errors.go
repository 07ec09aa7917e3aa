package utils

import "errors"

// RunAndWrapOnError runs the given function and joins its error with errIn
func RunAndWrapOnError(runnable func() error, errIn error) error {
	if err := runnable(); err != nil {
		return errors.Join(errIn, err)
	}
	return errIn
}
