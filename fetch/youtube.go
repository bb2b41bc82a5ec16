package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"ewintr.nl/ytstats/model"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"
)

const (
	// MaxPageSize is the largest page playlistItems.list will return.
	MaxPageSize = 50
	// MaxBatchSize is the largest id list the batch endpoints accept.
	MaxBatchSize = 50
)

var (
	ErrTooManyChannels   = errors.New("too many channel ids for a single request")
	ErrNoUploadsPlaylist = errors.New("channel has no uploads playlist")
	ErrChannelNotFound   = errors.New("channel not found")
)

type Youtube struct {
	Client *youtube.Service
	HTTP   *http.Client
}

// NewYoutube needs the authenticated HTTP client the service was built
// with, videos.list is read through it directly.
func NewYoutube(client *youtube.Service, httpClient *http.Client) *Youtube {
	return &Youtube{Client: client, HTTP: httpClient}
}

// PlaylistPage fetches one page of the playlist. The returned token is empty
// when there are no more pages.
func (y *Youtube) PlaylistPage(ctx context.Context, playlistID model.YoutubePlaylistID, pageToken string) ([]model.YoutubeVideoID, string, error) {
	call := y.Client.PlaylistItems.
		List([]string{"contentDetails"}).
		PlaylistId(string(playlistID)).
		MaxResults(MaxPageSize).
		Context(ctx)

	if pageToken != "" {
		call.PageToken(pageToken)
	}

	response, err := call.Do()
	if err != nil {
		return nil, "", fmt.Errorf("list playlist items of %s: %w", playlistID, err)
	}

	ids := make([]model.YoutubeVideoID, 0, len(response.Items))
	for _, item := range response.Items {
		if item.ContentDetails == nil {
			continue
		}
		ids = append(ids, model.YoutubeVideoID(item.ContentDetails.VideoId))
	}

	return ids, response.NextPageToken, nil
}

// PlaylistVideoIDs returns every video id in the playlist, in playlist order.
func (y *Youtube) PlaylistVideoIDs(ctx context.Context, playlistID model.YoutubePlaylistID) ([]model.YoutubeVideoID, error) {
	pager := NewPlaylistPager(y, playlistID)
	ids := []model.YoutubeVideoID{}
	for !pager.Done() {
		page, err := pager.Next(ctx)
		if err != nil {
			return nil, err
		}
		ids = append(ids, page...)
	}

	return ids, nil
}

// VideoDetails fetches metadata and statistics in batches of MaxBatchSize.
// Ids that no longer exist upstream are left out of the result.
func (y *Youtube) VideoDetails(ctx context.Context, ids []model.YoutubeVideoID) ([]model.VideoRecord, error) {
	records := make([]model.VideoRecord, 0, len(ids))
	for start := 0; start < len(ids); start += MaxBatchSize {
		end := min(start+MaxBatchSize, len(ids))
		batch, err := y.videoBatch(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		records = append(records, batch...)
	}

	return records, nil
}

// videoBatch decodes the raw body, the generated types turn a reported "0"
// count into an absent one.
func (y *Youtube) videoBatch(ctx context.Context, ids []model.YoutubeVideoID) ([]model.VideoRecord, error) {
	strIDs := make([]string, len(ids))
	for i, id := range ids {
		strIDs[i] = string(id)
	}
	params := url.Values{}
	params.Set("part", "snippet,contentDetails,statistics")
	params.Set("id", strings.Join(strIDs, ","))
	params.Set("alt", "json")
	params.Set("prettyPrint", "false")
	endpoint := googleapi.ResolveRelative(y.Client.BasePath, "youtube/v3/videos") + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	res, err := y.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer res.Body.Close()
	if err := googleapi.CheckResponse(res); err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}

	var response struct {
		Items []VideoItem `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode videos: %w", err)
	}

	records := make([]model.VideoRecord, 0, len(response.Items))
	for _, item := range response.Items {
		records = append(records, FlattenVideo(item))
	}

	return records, nil
}
