package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CommentStatus is the single moderation state of a comment. It replaces the
// is_approved/is_spam pair so a comment cannot be both.
type CommentStatus string

const (
	StatusPending  CommentStatus = "pending"
	StatusApproved CommentStatus = "approved"
	StatusSpam     CommentStatus = "spam"
)

func (s CommentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusSpam:
		return true
	default:
		return false
	}
}

const (
	MaxAuthorNameLength  = 120
	MaxAuthorEmailLength = 200
	MaxContentLength     = 4000
)

type Comment struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	PostID      uuid.UUID     `json:"post_id" db:"post_id"`
	ParentID    *uuid.UUID    `json:"parent_id" db:"parent_id"`
	AuthorName  string        `json:"author_name" db:"author_name"`
	AuthorEmail *string       `json:"-" db:"author_email"`
	Content     string        `json:"content" db:"content"`
	Status      CommentStatus `json:"status" db:"status"`
	ModeratedBy *string       `json:"moderated_by,omitempty" db:"moderated_by"`
	ModeratedAt *time.Time    `json:"moderated_at,omitempty" db:"moderated_at"`
	Version     int64         `json:"version" db:"version"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at" db:"updated_at"`

	// avatarHash is restored from JSON, where the email itself never appears.
	avatarHash string
}

func (c *Comment) IsApproved() bool { return c.Status == StatusApproved }

func (c *Comment) IsSpam() bool { return c.Status == StatusSpam }

func (c *Comment) IsPending() bool { return c.Status == StatusPending }

func (c *Comment) IsRoot() bool { return c.ParentID == nil }

// AvatarHash is the hex SHA-256 of the normalized author email, or "" when no
// email was given. A comment decoded from JSON keeps the hash it was encoded
// with.
func (c *Comment) AvatarHash() string {
	if c.AuthorEmail == nil {
		return c.avatarHash
	}
	email := strings.ToLower(strings.TrimSpace(*c.AuthorEmail))
	if email == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}

// MarshalJSON adds the derived is_approved/is_spam flags that the widget and
// the admin panel read.
func (c Comment) MarshalJSON() ([]byte, error) {
	type alias Comment
	return json.Marshal(struct {
		alias
		IsApproved bool   `json:"is_approved"`
		IsSpam     bool   `json:"is_spam"`
		AvatarHash string `json:"avatar_hash,omitempty"`
	}{
		alias:      alias(c),
		IsApproved: c.IsApproved(),
		IsSpam:     c.IsSpam(),
		AvatarHash: c.AvatarHash(),
	})
}

func (c *Comment) UnmarshalJSON(data []byte) error {
	type alias Comment
	aux := struct {
		*alias
		AvatarHash string `json:"avatar_hash"`
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.avatarHash = aux.AvatarHash
	return nil
}

// ThreadNode is a comment plus its direct replies. It only exists in memory.
type ThreadNode struct {
	Comment Comment       `json:"comment"`
	Replies []*ThreadNode `json:"replies"`
}

// Moderator identifies who performs a moderation action. It is passed
// explicitly to every moderation operation.
type Moderator struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type SubmitCommentInput struct {
	ParentID    *uuid.UUID `json:"parent_id"`
	AuthorName  string     `json:"author_name"`
	AuthorEmail *string    `json:"author_email"`
	Content     string     `json:"content"`
	Honeypot    string     `json:"website"`
}

type AdminReplyInput struct {
	Content string `json:"content"`
}

type ModerationAction string

const (
	ActionApprove ModerationAction = "approve"
	ActionSpam    ModerationAction = "spam"
)

type ModerateInput struct {
	Action          ModerationAction `json:"action"`
	ExpectedVersion int64            `json:"expected_version"`
}

// CommentFilter selects comments for the admin listing.
type CommentFilter string

const (
	FilterAll      CommentFilter = "all"
	FilterPending  CommentFilter = "pending"
	FilterApproved CommentFilter = "approved"
	FilterSpam     CommentFilter = "spam"
)

func ParseCommentFilter(s string) (CommentFilter, bool) {
	switch f := CommentFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, true
	case FilterAll, FilterPending, FilterApproved, FilterSpam:
		return f, true
	default:
		return "", false
	}
}

// Status returns the status matched by the filter, or "" for FilterAll.
func (f CommentFilter) Status() CommentStatus {
	switch f {
	case FilterPending:
		return StatusPending
	case FilterApproved:
		return StatusApproved
	case FilterSpam:
		return StatusSpam
	default:
		return ""
	}
}

// ModerationUpdate is the full set of moderation fields written by a single
// action.
type ModerationUpdate struct {
	ID              uuid.UUID
	Status          CommentStatus
	ModeratedBy     string
	ModeratedAt     time.Time
	ExpectedVersion int64
}

type AdminCommentPage struct {
	PaginatedResponse[Comment]
	Threads []*ThreadNode `json:"threads"`
}

type StatusCounts struct {
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Spam     int64 `json:"spam"`
	All      int64 `json:"all"`
}

type BulkApproveResult struct {
	ApprovedCount int         `json:"approved_count"`
	Failures      []uuid.UUID `json:"failures"`
}
