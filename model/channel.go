package model

type YoutubeChannelID string

type YoutubePlaylistID string

type ChannelSummary struct {
	ChannelID   YoutubeChannelID
	ChannelName string
	Subscribers uint64
	Views       uint64
	TotalVideos uint64
	PlaylistID  YoutubePlaylistID
}

var ChannelColumns = []string{
	"channel_id",
	"channel_name",
	"subscribers",
	"views",
	"total_videos",
	"playlist_id",
}
