package fetch

import (
	"encoding/json"
	"strconv"

	"ewintr.nl/ytstats/model"
)

const (
	groupSnippet        = "snippet"
	groupStatistics     = "statistics"
	groupContentDetails = "contentDetails"
)

type videoField struct {
	column string
	group  string
	key    string
	set    func(*model.VideoRecord, json.RawMessage)
}

// videoSchema maps each output column to its place in a videos.list item.
// favouriteCount keeps its column name but reads the key the API actually
// returns.
var videoSchema = []videoField{
	{"channelTitle", groupSnippet, "channelTitle", setString(func(r *model.VideoRecord) **string { return &r.ChannelTitle })},
	{"title", groupSnippet, "title", setString(func(r *model.VideoRecord) **string { return &r.Title })},
	{"description", groupSnippet, "description", setString(func(r *model.VideoRecord) **string { return &r.Description })},
	{"tags", groupSnippet, "tags", setTags},
	{"publishedAt", groupSnippet, "publishedAt", setString(func(r *model.VideoRecord) **string { return &r.PublishedAt })},
	{"viewCount", groupStatistics, "viewCount", setCount(func(r *model.VideoRecord) **uint64 { return &r.ViewCount })},
	{"likeCount", groupStatistics, "likeCount", setCount(func(r *model.VideoRecord) **uint64 { return &r.LikeCount })},
	{"favouriteCount", groupStatistics, "favoriteCount", setCount(func(r *model.VideoRecord) **uint64 { return &r.FavouriteCount })},
	{"commentCount", groupStatistics, "commentCount", setCount(func(r *model.VideoRecord) **uint64 { return &r.CommentCount })},
	{"duration", groupContentDetails, "duration", setString(func(r *model.VideoRecord) **string { return &r.Duration })},
	{"definition", groupContentDetails, "definition", setString(func(r *model.VideoRecord) **string { return &r.Definition })},
	{"caption", groupContentDetails, "caption", setString(func(r *model.VideoRecord) **string { return &r.Caption })},
}

// VideoItem is one videos.list item with its parts kept as sent.
type VideoItem struct {
	ID             string                     `json:"id"`
	Snippet        map[string]json.RawMessage `json:"snippet"`
	Statistics     map[string]json.RawMessage `json:"statistics"`
	ContentDetails map[string]json.RawMessage `json:"contentDetails"`
}

// FlattenVideo turns one videos.list item into a record. Anything missing
// from the item, a whole group or a single key, stays null.
func FlattenVideo(item VideoItem) model.VideoRecord {
	record := model.VideoRecord{VideoID: model.YoutubeVideoID(item.ID)}
	groups := map[string]map[string]json.RawMessage{
		groupSnippet:        item.Snippet,
		groupStatistics:     item.Statistics,
		groupContentDetails: item.ContentDetails,
	}
	for _, f := range videoSchema {
		raw, ok := groups[f.group][f.key]
		if !ok || string(raw) == "null" {
			continue
		}
		f.set(&record, raw)
	}

	return record
}

func setString(dst func(*model.VideoRecord) **string) func(*model.VideoRecord, json.RawMessage) {
	return func(r *model.VideoRecord, raw json.RawMessage) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return
		}
		*dst(r) = &s
	}
}

// counts arrive as decimal strings
func setCount(dst func(*model.VideoRecord) **uint64) func(*model.VideoRecord, json.RawMessage) {
	return func(r *model.VideoRecord, raw json.RawMessage) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return
		}
		c, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return
		}
		*dst(r) = &c
	}
}

func setTags(r *model.VideoRecord, raw json.RawMessage) {
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil || tags == nil {
		return
	}
	r.Tags = tags
}
