package model

import "time"

// Video is a registered video in the catalog.
type Video struct {
	ID           string `json:"video_id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail,omitempty"`
	VideoURL     string `json:"video_url,omitempty"`

	// ClickCount is a denormalized cache of the number of counted click
	// events for this video. It is maintained only by the click
	// recording path and is advisory: deleting events via a bulk reset
	// intentionally leaves it stale.
	ClickCount int64 `json:"click_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
