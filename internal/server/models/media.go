package models

import "time"

// Media is a media item. ThumbnailKey, when set, is an object key in the
// media bucket and takes precedence over ThumbnailURL.
type Media struct {
	ID           string
	Title        string
	Description  string
	ThumbnailURL string
	ThumbnailKey string
	Location     string
	Latitude     *float64
	Longitude    *float64
	CreatedAt    time.Time
}

type Comment struct {
	ID        string
	MediaID   string
	UserID    string
	Text      string
	CreatedAt time.Time
}
