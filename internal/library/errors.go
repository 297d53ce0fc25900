package library

import "errors"

var (
	// ErrSectionNotFound indicates the named section does not exist.
	ErrSectionNotFound = errors.New("section not found")
	// ErrSectionExists indicates a section with that name already exists.
	ErrSectionExists = errors.New("section already exists")
	// ErrEmptySectionName rejects blank section names.
	ErrEmptySectionName = errors.New("section name required")
	// ErrLastSection prevents deleting the only remaining section.
	ErrLastSection = errors.New("cannot delete the last section")
	// ErrItemNotFound indicates no item carries the requested id.
	ErrItemNotFound = errors.New("item not found")
	// ErrIndexOutOfRange indicates a positional lookup outside the section.
	ErrIndexOutOfRange = errors.New("item index out of range")
	// ErrDataShape marks a persisted document that could not be decoded.
	ErrDataShape = errors.New("malformed document")
)
