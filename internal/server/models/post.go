package models

import "time"

// Post is a piece of content owned by AuthorID. AuthorName is filled by
// read queries for display only.
type Post struct {
	ID            string
	Title         string
	Content       string
	AuthorID      string
	AuthorName    string
	AttachmentKey string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
