package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"ewintr.nl/ytstats/model"
)

type memorySource struct {
	mu        sync.Mutex
	playlists map[model.YoutubePlaylistID][]model.YoutubeVideoID
	failOn    model.YoutubePlaylistID
	detailIDs [][]model.YoutubeVideoID
}

func (m *memorySource) PlaylistVideoIDs(_ context.Context, playlistID model.YoutubePlaylistID) ([]model.YoutubeVideoID, error) {
	if playlistID == m.failOn {
		return nil, errors.New("quota exceeded")
	}
	ids, ok := m.playlists[playlistID]
	if !ok {
		return nil, fmt.Errorf("unknown playlist %s", playlistID)
	}
	return ids, nil
}

func (m *memorySource) VideoDetails(_ context.Context, ids []model.YoutubeVideoID) ([]model.VideoRecord, error) {
	m.mu.Lock()
	m.detailIDs = append(m.detailIDs, ids)
	m.mu.Unlock()

	records := make([]model.VideoRecord, 0, len(ids))
	for _, id := range ids {
		records = append(records, model.VideoRecord{VideoID: id})
	}
	return records, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func twoChannels() (*memorySource, []model.ChannelSummary) {
	src := &memorySource{
		playlists: map[model.YoutubePlaylistID][]model.YoutubeVideoID{
			"UUa": {"a1", "a2", "a3"},
			"UUb": {"b1", "b2"},
		},
	}
	channels := []model.ChannelSummary{
		{ChannelID: "UCa", PlaylistID: "UUa"},
		{ChannelID: "UCb", PlaylistID: "UUb"},
	}
	return src, channels
}

func TestBuildEmpty(t *testing.T) {
	for _, workers := range []int{1, 4} {
		a := NewAssembler(&memorySource{}, workers, testLogger())
		data, err := a.Build(context.Background(), nil)
		if err != nil {
			t.Fatalf("workers %d: exp nil, got %v", workers, err)
		}
		if data == nil || len(data) != 0 {
			t.Errorf("workers %d: exp empty dataset, got %v", workers, data)
		}
	}
}

func TestBuildOrder(t *testing.T) {
	exp := []model.YoutubeVideoID{"a1", "a2", "a3", "b1", "b2"}
	for _, workers := range []int{0, 1, 2, 8} {
		t.Run(fmt.Sprintf("workers %d", workers), func(t *testing.T) {
			src, channels := twoChannels()
			a := NewAssembler(src, workers, testLogger())

			data, err := a.Build(context.Background(), channels)
			if err != nil {
				t.Fatalf("exp nil, got %v", err)
			}
			if len(data) != len(exp) {
				t.Fatalf("exp %d records, got %d", len(exp), len(data))
			}
			for i := range exp {
				if data[i].VideoID != exp[i] {
					t.Errorf("position %d: exp %s, got %s", i, exp[i], data[i].VideoID)
				}
			}
		})
	}
}

func TestBuildManyChannelsParallel(t *testing.T) {
	src := &memorySource{playlists: map[model.YoutubePlaylistID][]model.YoutubeVideoID{}}
	channels := []model.ChannelSummary{}
	exp := []model.YoutubeVideoID{}
	for c := 0; c < 20; c++ {
		playlist := model.YoutubePlaylistID(fmt.Sprintf("UU%02d", c))
		for v := 0; v < c%4; v++ {
			id := model.YoutubeVideoID(fmt.Sprintf("c%02dv%d", c, v))
			src.playlists[playlist] = append(src.playlists[playlist], id)
			exp = append(exp, id)
		}
		if src.playlists[playlist] == nil {
			src.playlists[playlist] = []model.YoutubeVideoID{}
		}
		channels = append(channels, model.ChannelSummary{ChannelID: model.YoutubeChannelID(playlist), PlaylistID: playlist})
	}

	a := NewAssembler(src, 5, testLogger())
	data, err := a.Build(context.Background(), channels)
	if err != nil {
		t.Fatalf("exp nil, got %v", err)
	}
	if len(data) != len(exp) {
		t.Fatalf("exp %d records, got %d", len(exp), len(data))
	}
	for i := range exp {
		if data[i].VideoID != exp[i] {
			t.Errorf("position %d: exp %s, got %s", i, exp[i], data[i].VideoID)
		}
	}
}

func TestBuildFailure(t *testing.T) {
	for _, workers := range []int{1, 3} {
		t.Run(fmt.Sprintf("workers %d", workers), func(t *testing.T) {
			src, channels := twoChannels()
			src.failOn = "UUb"
			a := NewAssembler(src, workers, testLogger())

			data, err := a.Build(context.Background(), channels)
			if err == nil {
				t.Fatal("exp error, got nil")
			}
			if data != nil {
				t.Errorf("exp no partial dataset, got %d records", len(data))
			}
		})
	}
}

func TestBuildNoDeduplication(t *testing.T) {
	src := &memorySource{
		playlists: map[model.YoutubePlaylistID][]model.YoutubeVideoID{
			"UUa": {"shared", "a1"},
			"UUb": {"shared"},
		},
	}
	channels := []model.ChannelSummary{
		{ChannelID: "UCa", PlaylistID: "UUa"},
		{ChannelID: "UCb", PlaylistID: "UUb"},
	}
	a := NewAssembler(src, 1, testLogger())

	data, err := a.Build(context.Background(), channels)
	if err != nil {
		t.Fatalf("exp nil, got %v", err)
	}
	if len(data) != 3 {
		t.Errorf("exp 3 records, got %d", len(data))
	}
	if len(src.detailIDs) != 2 {
		t.Errorf("exp one detail call per channel, got %d", len(src.detailIDs))
	}
}

// cancelSource cancels the run while the first channel is being fetched.
type cancelSource struct {
	memorySource
	cancel context.CancelFunc
	once   sync.Once
}

func (c *cancelSource) PlaylistVideoIDs(ctx context.Context, playlistID model.YoutubePlaylistID) ([]model.YoutubeVideoID, error) {
	c.once.Do(c.cancel)
	return c.memorySource.PlaylistVideoIDs(ctx, playlistID)
}

func TestBuildCancelled(t *testing.T) {
	for _, workers := range []int{1, 2} {
		t.Run(fmt.Sprintf("workers %d", workers), func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			src := &cancelSource{
				memorySource: memorySource{playlists: map[model.YoutubePlaylistID][]model.YoutubeVideoID{}},
				cancel:       cancel,
			}
			channels := []model.ChannelSummary{}
			for c := 0; c < 10; c++ {
				playlist := model.YoutubePlaylistID(fmt.Sprintf("UU%02d", c))
				src.playlists[playlist] = []model.YoutubeVideoID{model.YoutubeVideoID(fmt.Sprintf("v%02d", c))}
				channels = append(channels, model.ChannelSummary{ChannelID: model.YoutubeChannelID(playlist), PlaylistID: playlist})
			}
			a := NewAssembler(src, workers, testLogger())

			data, err := a.Build(ctx, channels)
			if !errors.Is(err, context.Canceled) {
				t.Fatalf("exp context.Canceled, got %v", err)
			}
			if data != nil {
				t.Errorf("exp no partial dataset, got %d records", len(data))
			}
		})
	}
}
