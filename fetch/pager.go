package fetch

import (
	"context"

	"ewintr.nl/ytstats/model"
)

type PlaylistPager struct {
	yt         *Youtube
	playlistID model.YoutubePlaylistID
	token      string
	exhausted  bool
}

// NewPlaylistPager walks a playlist one page at a time. A pager cannot be
// rewound, create a new one to start over.
func NewPlaylistPager(yt *Youtube, playlistID model.YoutubePlaylistID) *PlaylistPager {
	return &PlaylistPager{
		yt:         yt,
		playlistID: playlistID,
	}
}

func (p *PlaylistPager) Done() bool {
	return p.exhausted
}

// Next returns the ids of the next page. After the last page, Done reports
// true and further calls return nothing.
func (p *PlaylistPager) Next(ctx context.Context) ([]model.YoutubeVideoID, error) {
	if p.exhausted {
		return nil, nil
	}

	ids, token, err := p.yt.PlaylistPage(ctx, p.playlistID, p.token)
	if err != nil {
		return nil, err
	}
	p.token = token
	if token == "" {
		p.exhausted = true
	}

	return ids, nil
}
