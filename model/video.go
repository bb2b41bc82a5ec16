package model

import (
	"encoding/json"
	"strconv"
)

type YoutubeVideoID string

// VideoRecord is one flattened row of the dataset. Every field except
// VideoID is nullable, a nil value means the upstream response did not
// carry it.
type VideoRecord struct {
	VideoID        YoutubeVideoID
	ChannelTitle   *string
	Title          *string
	Description    *string
	Tags           []string
	PublishedAt    *string
	ViewCount      *uint64
	LikeCount      *uint64
	FavouriteCount *uint64
	CommentCount   *uint64
	Duration       *string
	Definition     *string
	Caption        *string
}

// VideoColumns is the fixed header of the exported dataset.
var VideoColumns = []string{
	"video_id",
	"channelTitle",
	"title",
	"description",
	"tags",
	"publishedAt",
	"viewCount",
	"likeCount",
	"favouriteCount",
	"commentCount",
	"duration",
	"definition",
	"caption",
}

// Row renders the record in VideoColumns order. Nulls become empty cells.
func (v VideoRecord) Row() []string {
	return []string{
		string(v.VideoID),
		str(v.ChannelTitle),
		str(v.Title),
		str(v.Description),
		tags(v.Tags),
		str(v.PublishedAt),
		count(v.ViewCount),
		count(v.LikeCount),
		count(v.FavouriteCount),
		count(v.CommentCount),
		str(v.Duration),
		str(v.Definition),
		str(v.Caption),
	}
}

type Dataset []VideoRecord

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func count(c *uint64) string {
	if c == nil {
		return ""
	}
	return strconv.FormatUint(*c, 10)
}

func tags(t []string) string {
	if t == nil {
		return ""
	}
	b, err := json.Marshal(t)
	if err != nil {
		return ""
	}
	return string(b)
}
