package fetch

import (
	"context"
	"fmt"
	"strings"

	"ewintr.nl/ytstats/model"
)

// ChannelSummaries fetches all channels in one request. Results come in the
// order the API returns them, which need not match ids.
func (y *Youtube) ChannelSummaries(ctx context.Context, ids []model.YoutubeChannelID) ([]model.ChannelSummary, error) {
	if len(ids) == 0 {
		return []model.ChannelSummary{}, nil
	}
	if len(ids) > MaxBatchSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyChannels, len(ids), MaxBatchSize)
	}

	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = string(id)
	}
	call := y.Client.Channels.
		List([]string{"snippet", "contentDetails", "statistics"}).
		Id(strings.Join(strIDs, ",")).
		Context(ctx)

	response, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}

	summaries := make([]model.ChannelSummary, 0, len(response.Items))
	for _, item := range response.Items {
		summary := model.ChannelSummary{
			ChannelID: model.YoutubeChannelID(item.Id),
		}
		if item.Snippet != nil {
			summary.ChannelName = item.Snippet.Title
		}
		if item.Statistics != nil {
			summary.Subscribers = item.Statistics.SubscriberCount
			summary.Views = item.Statistics.ViewCount
			summary.TotalVideos = item.Statistics.VideoCount
		}
		if item.ContentDetails == nil || item.ContentDetails.RelatedPlaylists == nil || item.ContentDetails.RelatedPlaylists.Uploads == "" {
			return nil, fmt.Errorf("%w: %s", ErrNoUploadsPlaylist, item.Id)
		}
		summary.PlaylistID = model.YoutubePlaylistID(item.ContentDetails.RelatedPlaylists.Uploads)

		summaries = append(summaries, summary)
	}

	return summaries, nil
}
