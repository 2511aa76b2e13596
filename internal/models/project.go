package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Project is a row of the projects table.
type Project struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Summary   *string   `json:"summary"`
	Content   *string   `json:"content"`
	Tags      []string  `json:"tags"`
	CoverURL  *string   `json:"cover_url"`
	IsHidden  bool      `json:"is_hidden"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProjectRecord is the writable column set. Nil pointers and a nil Tags slice
// are stored as NULL.
type ProjectRecord struct {
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Summary  *string  `json:"summary"`
	Content  *string  `json:"content"`
	Tags     []string `json:"tags"`
	CoverURL *string  `json:"cover_url"`
	IsHidden bool     `json:"is_hidden"`
}

// ProjectInput is the admin form after decoding, before normalization.
type ProjectInput struct {
	Title    string
	Summary  string
	Content  string
	Tags     string
	IsHidden bool
}

type ListOptions struct {
	IncludeHidden bool
}

// ParseTags splits a comma-separated list, trims every entry and drops empty
// ones. An empty result is nil so it is stored as NULL.
func ParseTags(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// NullableString maps "" to nil.
func NullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
