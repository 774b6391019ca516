package vcard

import "errors"

// Errors
var (
	// ErrCannotParse marks a property value that could not be unmarshaled.
	// It aborts the property, not the card.
	ErrCannotParse    = errors.New("cannot parse property")
	ErrUnknownVersion = errors.New("unknown vCard version")
	ErrNotDataURI     = errors.New("not a data URI")
	ErrEmptyCard      = errors.New("vCard is empty")
)
