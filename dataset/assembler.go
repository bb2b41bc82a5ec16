package dataset

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"ewintr.nl/ytstats/model"
	"github.com/panjf2000/ants/v2"
)

type VideoSource interface {
	PlaylistVideoIDs(ctx context.Context, playlistID model.YoutubePlaylistID) ([]model.YoutubeVideoID, error)
	VideoDetails(ctx context.Context, ids []model.YoutubeVideoID) ([]model.VideoRecord, error)
}

type Assembler struct {
	source  VideoSource
	workers int
	logger  *slog.Logger
}

func NewAssembler(source VideoSource, workers int, logger *slog.Logger) *Assembler {
	if workers < 1 {
		workers = 1
	}
	return &Assembler{
		source:  source,
		workers: workers,
		logger:  logger,
	}
}

// Build collects the videos of every channel and concatenates them in
// channel order. The first failure aborts the whole build.
func (a *Assembler) Build(ctx context.Context, channels []model.ChannelSummary) (model.Dataset, error) {
	if a.workers == 1 || len(channels) < 2 {
		return a.buildSequential(ctx, channels)
	}

	return a.buildParallel(ctx, channels)
}

func (a *Assembler) buildSequential(ctx context.Context, channels []model.ChannelSummary) (model.Dataset, error) {
	data := model.Dataset{}
	for _, channel := range channels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records, err := a.channelVideos(ctx, channel)
		if err != nil {
			return nil, err
		}
		data = append(data, records...)
	}

	return data, nil
}

func (a *Assembler) buildParallel(parent context.Context, channels []model.ChannelSummary) (model.Dataset, error) {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	pool, err := ants.NewPool(a.workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	slots := make([][]model.VideoRecord, len(channels))
	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i, channel := range channels {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				fail(err)
				return
			}
			records, err := a.channelVideos(ctx, channel)
			if err != nil {
				fail(err)
				return
			}
			slots[i] = records
		}); err != nil {
			wg.Done()
			fail(fmt.Errorf("submit channel %s: %w", channel.ChannelID, err))
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}

	data := model.Dataset{}
	for _, records := range slots {
		data = append(data, records...)
	}

	return data, nil
}

func (a *Assembler) channelVideos(ctx context.Context, channel model.ChannelSummary) ([]model.VideoRecord, error) {
	a.logger.Info("fetching video ids", slog.String("channelid", string(channel.ChannelID)), slog.String("playlistid", string(channel.PlaylistID)))
	ids, err := a.source.PlaylistVideoIDs(ctx, channel.PlaylistID)
	if err != nil {
		return nil, fmt.Errorf("video ids of channel %s: %w", channel.ChannelID, err)
	}

	a.logger.Info("fetching video details", slog.String("channelid", string(channel.ChannelID)), slog.Int("count", len(ids)))
	records, err := a.source.VideoDetails(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("video details of channel %s: %w", channel.ChannelID, err)
	}

	a.logger.Info("fetched channel videos", slog.String("channelid", string(channel.ChannelID)), slog.Int("count", len(records)))
	return records, nil
}
