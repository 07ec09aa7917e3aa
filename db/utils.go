package db

import "errors"

// UpperBound returns the smallest key that is strictly greater than every key
// sharing the given prefix, or nil if no such key exists.
func UpperBound(prefix []byte) []byte {
	var ub []byte

	for i := len(prefix) - 1; i >= 0; i-- {
		if prefix[i] == 0xFF {
			continue
		}
		ub = make([]byte, i+1)
		copy(ub, prefix)
		ub[i]++
		return ub
	}

	return nil
}

// CloseAndWrapOnError closes with closer and joins the resulting error into errIn.
// Meant to be deferred with a named error return.
func CloseAndWrapOnError(closer func() error, errIn *error) {
	if closeErr := closer(); closeErr != nil {
		*errIn = errors.Join(*errIn, closeErr)
	}
}
