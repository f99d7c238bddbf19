package comment

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"blogcms/internal/domain"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Submission is a public comment that passed the gate, already normalized.
type Submission struct {
	ParentID    *uuid.UUID
	AuthorName  string
	AuthorEmail *string
	Content     string
	Status      domain.CommentStatus
}

// Screen runs the spam gate rules in order and returns the normalized
// submission or a *domain.ValidationError. Lengths are counted in runes.
func Screen(input domain.SubmitCommentInput) (*Submission, error) {
	if input.Honeypot != "" {
		return nil, domain.NewValidationError(domain.ReasonHoneypot, "")
	}

	name := strings.TrimSpace(input.AuthorName)
	content := strings.TrimSpace(input.Content)
	if name == "" {
		return nil, domain.NewValidationError(domain.ReasonMissingField, "author_name")
	}
	if content == "" {
		return nil, domain.NewValidationError(domain.ReasonMissingField, "content")
	}

	if utf8.RuneCountInString(name) > domain.MaxAuthorNameLength {
		return nil, domain.NewValidationError(domain.ReasonTooLong, "author_name")
	}
	if utf8.RuneCountInString(content) > domain.MaxContentLength {
		return nil, domain.NewValidationError(domain.ReasonTooLong, "content")
	}

	var email *string
	if input.AuthorEmail != nil {
		trimmed := strings.TrimSpace(*input.AuthorEmail)
		if trimmed != "" {
			if utf8.RuneCountInString(trimmed) > domain.MaxAuthorEmailLength {
				return nil, domain.NewValidationError(domain.ReasonTooLong, "author_email")
			}
			if !emailPattern.MatchString(trimmed) {
				return nil, domain.NewValidationError(domain.ReasonInvalidEmail, "author_email")
			}
			email = &trimmed
		}
	}

	return &Submission{
		ParentID:    input.ParentID,
		AuthorName:  name,
		AuthorEmail: email,
		Content:     content,
		Status:      domain.StatusPending,
	}, nil
}
