// Package domain holds the error taxonomy shared across the core.
// Every failure is a returned value; nothing here is logged or fatal.
package domain

import "errors"

var (
	// ErrIndexNotFound signals an operation against a missing index.
	ErrIndexNotFound = errors.New("index_not_found_exception")
	// ErrDocumentMissing signals a missing document within an existing index.
	ErrDocumentMissing = errors.New("document_missing_exception")
	// ErrValidation signals a document that violates its index mapping.
	ErrValidation = errors.New("mapper_parsing_exception")
	// ErrActionValidation signals a malformed request body, such as an
	// update that lacks a "doc" object.
	ErrActionValidation = errors.New("action_request_validation_exception")
)
