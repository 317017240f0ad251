package scimschema

import "errors"

var (
	ErrInvalidSchema = errors.New("scimschema: invalid attribute schema")
	ErrNilCache      = errors.New("scimschema: cache is nil")
	ErrNilBuilder    = errors.New("scimschema: build function is nil")
)
