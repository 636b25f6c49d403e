// Package services defines the business logic for accounts, friendships,
// tweets, comments, and news feeds. This file centralizes common
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler/controller layer.
package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrSelfFollow is returned when a user attempts to follow themselves.
	ErrSelfFollow = errors.New("cannot follow yourself")

	// ErrSelfUnfollow is returned when a user attempts to unfollow themselves.
	ErrSelfUnfollow = errors.New("cannot unfollow yourself")

	// ErrUserNotFound indicates that the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrTweetNotFound indicates that the requested tweet does not exist.
	ErrTweetNotFound = errors.New("tweet not found")

	// ErrCommentNotFound indicates that the requested comment does not exist.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrNotCommentOwner is returned when a user attempts to modify or delete
	// a comment that belongs to somebody else.
	ErrNotCommentOwner = errors.New("only the comment owner may modify it")
)

// ValidationError carries per-field validation failures so handlers can
// render them in the response body next to the offending field names.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError over a single field.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// Add records a failure for field unless one is already present.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

// Empty reports whether no failures have been recorded.
func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

// Error renders the failures in deterministic field order.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

// AsValidationError unwraps err into a *ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
