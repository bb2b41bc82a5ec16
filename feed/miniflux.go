package feed

import (
	"fmt"
	"strings"

	"ewintr.nl/ytstats/model"
	"miniflux.app/client"
)

const youtubeFeedPrefix = "https://www.youtube.com/feeds/videos.xml?channel_id="

type MinifluxInfo struct {
	Endpoint string
	ApiKey   string
}

type Miniflux struct {
	client *client.Client
}

func NewMiniflux(mflInfo MinifluxInfo) *Miniflux {
	return &Miniflux{
		client: client.New(mflInfo.Endpoint, mflInfo.ApiKey),
	}
}

// Channels returns the ids of the YouTube channels the reader is
// subscribed to, in feed order. Other feeds are ignored.
func (m *Miniflux) Channels() ([]model.YoutubeChannelID, error) {
	feeds, err := m.client.Feeds()
	if err != nil {
		return nil, fmt.Errorf("list miniflux feeds: %w", err)
	}

	ids := []model.YoutubeChannelID{}
	for _, feed := range feeds {
		if !strings.HasPrefix(feed.FeedURL, youtubeFeedPrefix) {
			continue
		}
		id := strings.TrimPrefix(feed.FeedURL, youtubeFeedPrefix)
		if i := strings.IndexByte(id, '&'); i >= 0 {
			id = id[:i]
		}
		if id == "" {
			continue
		}
		ids = append(ids, model.YoutubeChannelID(id))
	}

	return ids, nil
}
