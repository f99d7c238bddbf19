package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrValidation         = errors.New("comment rejected")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrStoreUnavailable   = errors.New("comment store unavailable, try again")
	ErrVersionConflict    = errors.New("comment was modified by another moderator")
	ErrInvalidAction      = errors.New("invalid moderation action")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Rejection reasons reported by the spam gate. They are logged, never sent to
// the submitter.
const (
	ReasonHoneypot      = "honeypot"
	ReasonMissingField  = "missing_field"
	ReasonTooLong       = "too_long"
	ReasonInvalidEmail  = "invalid_email"
	ReasonInvalidParent = "invalid_parent"
)

type ValidationError struct {
	Reason string
	Field  string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("comment rejected: %s", e.Reason)
	}
	return fmt.Sprintf("comment rejected: %s (%s)", e.Reason, e.Field)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func NewValidationError(reason, field string) *ValidationError {
	return &ValidationError{Reason: reason, Field: field}
}

// IsHoneypot reports whether err is a rejection caused by the honeypot field.
func IsHoneypot(err error) bool {
	var vErr *ValidationError
	return errors.As(err, &vErr) && vErr.Reason == ReasonHoneypot
}

// BulkApproveError reports the comments a bulk approval could not update.
// Comments approved before the failure stay approved.
type BulkApproveError struct {
	Approved int
	Failures []uuid.UUID
	Err      error
}

func (e *BulkApproveError) Error() string {
	ids := make([]string, len(e.Failures))
	for i, id := range e.Failures {
		ids[i] = id.String()
	}
	return fmt.Sprintf("approved %d comment(s), %d failed [%s]: %v",
		e.Approved, len(e.Failures), strings.Join(ids, ", "), e.Err)
}

func (e *BulkApproveError) Unwrap() error { return e.Err }
