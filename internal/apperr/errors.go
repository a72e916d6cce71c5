// Package apperr defines the error taxonomy shared by the content pipeline.
package apperr

import "errors"

var (
	// ErrIO marks a missing or unreadable directory or file.
	ErrIO = errors.New("io error")
	// ErrParse marks a malformed front-matter header.
	ErrParse = errors.New("parse error")
	// ErrTransform marks an attribute tree with an unexpected shape.
	ErrTransform = errors.New("transform error")
	// ErrNotFound marks a lookup of an unknown slug.
	ErrNotFound = errors.New("not found")
)
