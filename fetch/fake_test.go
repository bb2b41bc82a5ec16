package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// fakeAPI answers the three YouTube Data API list calls from memory.
type fakeAPI struct {
	mu        sync.Mutex
	playlists map[string][]string
	videos    map[string]string
	channels  map[string]string
	handles   map[string]string
	videoErr  int

	pageRequests  int
	batches       [][]string
	channelParams []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		playlists: map[string][]string{},
		videos:    map[string]string{},
		channels:  map[string]string{},
		handles:   map[string]string{},
	}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	q := r.URL.Query()
	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/playlistItems"):
		f.playlistItems(w, q)
	case strings.HasSuffix(r.URL.Path, "/videos"):
		f.videoList(w, q)
	case strings.HasSuffix(r.URL.Path, "/channels"):
		f.channelList(w, q)
	default:
		apiError(w, http.StatusNotFound, "unknown path "+r.URL.Path)
	}
}

func (f *fakeAPI) playlistItems(w http.ResponseWriter, q map[string][]string) {
	f.pageRequests++
	playlistID := first(q["playlistId"])
	ids, ok := f.playlists[playlistID]
	if !ok {
		apiError(w, http.StatusNotFound, "playlistNotFound")
		return
	}
	offset := 0
	if token := first(q["pageToken"]); token != "" {
		offset, _ = strconv.Atoi(token)
	}
	size, _ := strconv.Atoi(first(q["maxResults"]))
	if size == 0 {
		size = 5
	}
	end := min(offset+size, len(ids))

	type item struct {
		ContentDetails struct {
			VideoID string `json:"videoId"`
		} `json:"contentDetails"`
	}
	resp := struct {
		Items         []item `json:"items"`
		NextPageToken string `json:"nextPageToken,omitempty"`
	}{Items: []item{}}
	for _, id := range ids[offset:end] {
		var it item
		it.ContentDetails.VideoID = id
		resp.Items = append(resp.Items, it)
	}
	if end < len(ids) {
		resp.NextPageToken = strconv.Itoa(end)
	}
	json.NewEncoder(w).Encode(resp)
}

func (f *fakeAPI) videoList(w http.ResponseWriter, q map[string][]string) {
	ids := strings.Split(first(q["id"]), ",")
	f.batches = append(f.batches, ids)
	if f.videoErr != 0 {
		apiError(w, f.videoErr, "quotaExceeded")
		return
	}
	if len(ids) > MaxBatchSize {
		apiError(w, http.StatusBadRequest, "too many ids")
		return
	}
	items := []string{}
	for _, id := range ids {
		if raw, ok := f.videos[id]; ok {
			items = append(items, raw)
		}
	}
	fmt.Fprintf(w, `{"items":[%s]}`, strings.Join(items, ","))
}

func (f *fakeAPI) channelList(w http.ResponseWriter, q map[string][]string) {
	f.channelParams = append(f.channelParams, first(q["part"]))
	if handle := first(q["forHandle"]); handle != "" {
		id, ok := f.handles[handle]
		if !ok {
			fmt.Fprint(w, `{"items":[]}`)
			return
		}
		fmt.Fprintf(w, `{"items":[{"id":%q}]}`, id)
		return
	}
	items := []string{}
	for _, id := range strings.Split(first(q["id"]), ",") {
		if raw, ok := f.channels[id]; ok {
			items = append(items, raw)
		}
	}
	fmt.Fprintf(w, `{"items":[%s]}`, strings.Join(items, ","))
}

func apiError(w http.ResponseWriter, code int, message string) {
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"error":{"code":%d,"message":%q}}`, code, message)
}

func first(vals []string) string {
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

func newTestYoutube(t *testing.T, api *fakeAPI) *Youtube {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	svc, err := youtube.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return NewYoutube(svc, srv.Client())
}

func videoIDs(prefix string, n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s%03d", prefix, i)
	}
	return ids
}

func fullVideo(id string) string {
	return fmt.Sprintf(`{
"id": %q,
"snippet": {"channelTitle": "Data Channel", "title": "Title %s", "description": "About %s", "tags": ["go", "data"], "publishedAt": "2023-01-02T03:04:05Z"},
"statistics": {"viewCount": "1200", "likeCount": "34", "favoriteCount": "0", "commentCount": "5"},
"contentDetails": {"duration": "PT4M13S", "definition": "hd", "caption": "false"}
}`, id, id, id)
}
