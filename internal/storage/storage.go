package storage

import "errors"

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrEmptyObject    = errors.New("empty object body")
	ErrForeignURL     = errors.New("url does not belong to this storage")
)
