// Package media defines the domain types shared by the catalog store,
// the wheel engine and the HTTP layer.
package media

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrInvalidType   = errors.New("invalid media type")
	ErrInvalidStatus = errors.New("invalid media status")
	ErrEmptyTitle    = errors.New("title cannot be empty")
	ErrTitleTooLong  = errors.New("title too long")
	ErrInvalidURL    = errors.New("invalid cover URL")
)

// Type identifies the kind of media item.
type Type string

const (
	TypeGame  Type = "game"
	TypeMovie Type = "movie"
)

// Valid reports whether t is one of the closed set of media types.
func (t Type) Valid() bool {
	return t == TypeGame || t == TypeMovie
}

// Status identifies the lifecycle state of a media item.
type Status string

const (
	StatusActive   Status = "active"
	StatusDone     Status = "done"
	StatusArchived Status = "archived"
)

// Valid reports whether s is one of the closed set of statuses.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusDone || s == StatusArchived
}

const (
	MaxTitleLength = 200
	MaxTagLength   = 50
	MaxTagsPerItem = 20
)

// Item represents one catalogued media item.
type Item struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Title     string    `json:"title"`
	Platform  string    `json:"platform,omitempty"`
	CoverURL  string    `json:"coverUrl,omitempty"`
	Tags      []string  `json:"tags"`
	Status    Status    `json:"status"`
	AddedAt   int64     `json:"addedAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasAllTags reports whether the item's tag set contains every tag in want.
// Matching is case-insensitive and exact per tag. An empty want always matches.
func (i *Item) HasAllTags(want []string) bool {
	if len(want) == 0 {
		return true
	}
	have := make(map[string]struct{}, len(i.Tags))
	for _, t := range i.Tags {
		have[strings.ToLower(t)] = struct{}{}
	}
	for _, w := range want {
		if _, ok := have[strings.ToLower(w)]; !ok {
			return false
		}
	}
	return true
}

// CreateInput contains fields for creating a media item.
type CreateInput struct {
	Type     Type     `json:"type"`
	Title    string   `json:"title"`
	Platform string   `json:"platform,omitempty"`
	CoverURL string   `json:"coverUrl,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// Validate checks and normalizes the input in place.
func (in *CreateInput) Validate() error {
	if !in.Type.Valid() {
		return ErrInvalidType
	}
	title, err := cleanTitle(in.Title)
	if err != nil {
		return err
	}
	in.Title = title
	in.Platform = NormalizePlatform(in.Type, in.Platform)
	cover, err := cleanCoverURL(in.CoverURL)
	if err != nil {
		return err
	}
	in.CoverURL = cover
	in.Tags = NormalizeTags(in.Tags)
	return nil
}

// UpdateInput contains fields for partially updating a media item.
// Nil fields are left unchanged.
type UpdateInput struct {
	Type     *Type     `json:"type,omitempty"`
	Title    *string   `json:"title,omitempty"`
	Platform *string   `json:"platform,omitempty"`
	CoverURL *string   `json:"coverUrl,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
	Status   *Status   `json:"status,omitempty"`
}

// Empty reports whether the update carries no fields.
func (in *UpdateInput) Empty() bool {
	return in.Type == nil && in.Title == nil && in.Platform == nil &&
		in.CoverURL == nil && in.Tags == nil && in.Status == nil
}

// Validate checks and normalizes the provided fields in place.
// itemType is the type the item will have after the update, used for
// platform alias normalization.
func (in *UpdateInput) Validate(itemType Type) error {
	if in.Type != nil {
		if !in.Type.Valid() {
			return ErrInvalidType
		}
		itemType = *in.Type
	}
	if in.Status != nil && !in.Status.Valid() {
		return ErrInvalidStatus
	}
	if in.Title != nil {
		title, err := cleanTitle(*in.Title)
		if err != nil {
			return err
		}
		*in.Title = title
	}
	if in.Platform != nil {
		*in.Platform = NormalizePlatform(itemType, *in.Platform)
	}
	if in.CoverURL != nil {
		cover, err := cleanCoverURL(*in.CoverURL)
		if err != nil {
			return err
		}
		*in.CoverURL = cover
	}
	if in.Tags != nil {
		*in.Tags = NormalizeTags(*in.Tags)
	}
	return nil
}

func cleanTitle(title string) (string, error) {
	cleaned := strings.TrimSpace(title)
	if cleaned == "" {
		return "", ErrEmptyTitle
	}
	if len(cleaned) > MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return cleaned, nil
}

var coverURLPattern = regexp.MustCompile(`(?i)^https?://` +
	`(?:(?:[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?\.)+[a-z]{2,6}\.?|` +
	`localhost|` +
	`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

func cleanCoverURL(raw string) (string, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return "", nil
	}
	if !coverURLPattern.MatchString(cleaned) {
		return "", ErrInvalidURL
	}
	return cleaned, nil
}

// NormalizeTags trims, lowercases and deduplicates tags while preserving
// first-seen order. Empty and oversized tags are dropped, and the result is
// capped at MaxTagsPerItem.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		clean := strings.ToLower(strings.TrimSpace(tag))
		if clean == "" || len(clean) > MaxTagLength {
			continue
		}
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		out = append(out, clean)
		if len(out) == MaxTagsPerItem {
			break
		}
	}
	return out
}

// ParseTagList splits a comma-separated tag string as it arrives on the
// wire into a normalized tag slice.
func ParseTagList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	return NormalizeTags(strings.Split(raw, ","))
}
