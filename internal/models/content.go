package models

// MediaType classifies a content item the way the catalog rows expect it.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// ContentItem is one playable unit: a movie, a series entry, or a live
// channel. Playlist-sourced items get their ID from a stable hash of the
// media URL, so repeated syncs of an unchanged playlist keep the same IDs.
type ContentItem struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	VideoURL     string    `json:"videoUrl,omitempty"`
	Duration     string    `json:"duration"`
	Genres       []string  `json:"genre"`
	Match        int       `json:"match"`
	Year         int       `json:"year"`
	Rating       string    `json:"rating"`
	IsTop10      bool      `json:"isTop10,omitempty"`
	MediaType    MediaType `json:"media_type"`
}
