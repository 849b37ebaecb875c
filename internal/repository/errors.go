package repository

import "errors"

var (
	errIDSpaceExhausted = errors.New("could not allocate a unique event id")
	errDocumentTooLarge = errors.New("document exceeds the remote size limit")
)
