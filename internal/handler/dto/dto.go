// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/sharetrack/sharetrack/internal/model"
)

// TrackResponse represents the outcome of a click recording.
type TrackResponse struct {
	Status string `json:"status"`
}

// RegisterVideoRequest represents the request body for registering a video.
type RegisterVideoRequest struct {
	VideoID      string `json:"video_id,omitempty"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	VideoURL     string `json:"video_url,omitempty"`
}

// RegisterVideoResponse represents the response for registering a video.
type RegisterVideoResponse struct {
	Status  string `json:"status"`
	VideoID string `json:"video_id"`
}

// EditVideoRequest represents the request body for editing a video.
// Omitted fields keep their prior value.
type EditVideoRequest struct {
	VideoID      string  `json:"video_id"`
	Title        *string `json:"title,omitempty"`
	ThumbnailURL *string `json:"thumbnail_url,omitempty"`
	VideoURL     *string `json:"video_url,omitempty"`
}

// StatusResponse represents a bare status acknowledgement.
type StatusResponse struct {
	Status string `json:"status"`
}

// DeleteVideoRequest represents the request body for deleting a video.
type DeleteVideoRequest struct {
	VideoID string `json:"video_id"`
}

// VideoResponse represents a video in API responses.
type VideoResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	VideoURL     string    `json:"video_url,omitempty"`
	ClickCount   int64     `json:"click_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserStatsResponse represents a user's aggregate click count.
type UserStatsResponse struct {
	UserID string `json:"user_id"`
	Count  int64  `json:"count"`
}

// RankingEntry represents one row of a ranking.
type RankingEntry struct {
	UserID string `json:"user_id"`
	Count  int64  `json:"count"`
}

// RankingResponse represents a full ranking snapshot.
type RankingResponse struct {
	Ranking []RankingEntry `json:"ranking"`
}

// ReferralCodeRequest represents the request body for fetching or
// creating a referral code.
type ReferralCodeRequest struct {
	UserID string `json:"user_id"`
}

// ReferralCodeResponse represents a user's referral code.
type ReferralCodeResponse struct {
	UserID string `json:"user_id"`
	Code   string `json:"code"`
}

// ReferralRegisterRequest represents the request body for registering
// a referral.
type ReferralRegisterRequest struct {
	Code      string `json:"code"`
	NewUserID string `json:"new_user_id"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToVideoResponse converts a Video model to VideoResponse DTO.
func ToVideoResponse(v *model.Video) *VideoResponse {
	return &VideoResponse{
		ID:           v.ID,
		Title:        v.Title,
		ThumbnailURL: v.ThumbnailURL,
		VideoURL:     v.VideoURL,
		ClickCount:   v.ClickCount,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

// ToRankingResponse converts ranking entries to a RankingResponse DTO.
func ToRankingResponse(entries []model.RankingEntry) *RankingResponse {
	ranking := make([]RankingEntry, len(entries))
	for i, e := range entries {
		ranking[i] = RankingEntry{UserID: e.UserID, Count: e.Count}
	}
	return &RankingResponse{Ranking: ranking}
}
