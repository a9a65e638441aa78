// Package models defines client-side data models used by the OSP CLI.
package models

import "time"

// Coordinates is a geographic position attached to a media item.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Media is a single media item as returned by GET /media/{id}.
type Media struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	ThumbnailURL string       `json:"thumbnailUrl"`
	CreatedAt    time.Time    `json:"createdAt"`
	Location     string       `json:"location,omitempty"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
}

// Comment belongs to a media item.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewComment is the body of POST /comments.
type NewComment struct {
	MediaID string `json:"mediaId"`
	Text    string `json:"text"`
}

// MediaView is what the media route shows: one item and its comments,
// newest first.
type MediaView struct {
	Media    *Media
	Comments []Comment
}

// Prepend puts c at the top of the comment list without reloading.
func (v *MediaView) Prepend(c Comment) {
	v.Comments = append([]Comment{c}, v.Comments...)
}
