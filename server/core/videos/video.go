package videos

import (
	"time"
)

type Category string

const (
	CategoryYouTube     Category = "youtube"
	CategoryCommercial  Category = "commercial"
	CategoryDocumentary Category = "documentary"
)

// Categories lists every known category in display order
var Categories = []Category{CategoryYouTube, CategoryCommercial, CategoryDocumentary}

func (c Category) IsValid() bool {
	switch c {
	case CategoryYouTube, CategoryCommercial, CategoryDocumentary:
		return true
	}
	return false
}

// RequiresVideoFile reports whether videos of this category carry their own media instead of a YouTube reference
func (c Category) RequiresVideoFile() bool {
	return c != CategoryYouTube
}

// Video is the persisted portfolio entry. The JSON field names are the stored layout and must not change.
type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Duration    string    `json:"duration"`
	Resolution  string    `json:"resolution"`
	Thumbnail   string    `json:"thumbnail"`
	VideoURL    string    `json:"videoUrl,omitempty"`  // empty when absent, e.g. the source was too large to embed
	YoutubeID   string    `json:"youtubeId,omitempty"` // only meaningful for CategoryYouTube
	Category    Category  `json:"category"`
	DateAdded   time.Time `json:"dateAdded"`
}

// HasVideo reports whether the entry has playable media of its own
func (v Video) HasVideo() bool {
	return v.VideoURL != ""
}

// EditSession is the working copy used while a video is being edited.
// It is never persisted; SaveEdit extracts a Video from it.
type EditSession struct {
	Video Video

	// NewThumbnail replaces the stored thumbnail when set
	NewThumbnail MediaSource
	// NewVideo replaces the stored video when set
	NewVideo MediaSource
}

// DeleteSelection is a video picked for deletion that still awaits confirmation
type DeleteSelection struct {
	ID    string
	Title string
}

// EncodedMedia is the result of encoding a media file for storage
type EncodedMedia struct {
	DataURI  string
	Embedded bool
	TooLarge bool
	Size     int64
}
