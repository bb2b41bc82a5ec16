package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"ewintr.nl/ytstats/config"
	"ewintr.nl/ytstats/dataset"
	"ewintr.nl/ytstats/export"
	"ewintr.nl/ytstats/feed"
	"ewintr.nl/ytstats/fetch"
	"ewintr.nl/ytstats/model"
	"ewintr.nl/ytstats/resolve"
	"ewintr.nl/ytstats/storage"
	"github.com/dustin/go-humanize"
	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"
	"google.golang.org/api/youtube/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	conf, err := config.Load(getParam("CONFIG_FILE", "config.yaml"))
	if err != nil {
		logger.Error("unable to load config", slog.Any("error", err))
		os.Exit(1)
	}

	if err := run(ctx, conf, logger); err != nil {
		logger.Error("collection failed", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("collection finished")
}

func run(ctx context.Context, conf config.Config, logger *slog.Logger) error {
	collection := model.NewRun(time.Now())
	logger = logger.With(slog.String("run", collection.ID.String()))

	httpClient, _, err := htransport.NewClient(ctx, option.WithAPIKey(conf.APIKey))
	if err != nil {
		return err
	}
	ytClient, err := youtube.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return err
	}
	yt := fetch.NewYoutube(ytClient, httpClient)

	var resolver resolve.Resolver = yt
	if conf.Resolver == config.ResolverPage {
		resolver = resolve.NewPage()
	}

	logger.Info("fetching channel ids", slog.Int("count", len(conf.Channels)), slog.String("resolver", conf.Resolver))
	ids, err := resolve.ResolveAll(ctx, resolver, conf.Channels)
	if err != nil {
		return err
	}
	if conf.Miniflux != nil {
		mflx := feed.NewMiniflux(feed.MinifluxInfo{
			Endpoint: conf.Miniflux.Endpoint,
			ApiKey:   conf.Miniflux.ApiKey,
		})
		subscribed, err := mflx.Channels()
		if err != nil {
			return err
		}
		logger.Info("fetched subscribed channels", slog.Int("count", len(subscribed)))
		ids = append(ids, subscribed...)
	}
	ids = resolve.Unique(ids)
	logger.Info("channel ids fetched", slog.Int("count", len(ids)))

	channels, err := yt.ChannelSummaries(ctx, ids)
	if err != nil {
		return err
	}
	for _, ch := range channels {
		logger.Info("channel stats fetched",
			slog.String("channelid", string(ch.ChannelID)),
			slog.String("name", ch.ChannelName),
			slog.String("subscribers", humanize.Comma(int64(ch.Subscribers))),
			slog.String("videos", humanize.Comma(int64(ch.TotalVideos))),
		)
	}
	collection.Channels = channels

	logger.Info("building dataset", slog.Int("channels", len(channels)), slog.Int("workers", conf.Workers))
	data, err := dataset.NewAssembler(yt, conf.Workers, logger).Build(ctx, channels)
	if err != nil {
		return err
	}
	collection.Videos = data

	csvExport := export.NewCSV(conf.DataFolder)
	path, err := csvExport.Write(conf.FileName, data)
	if err != nil {
		return err
	}
	logSaved(logger, "dataset saved", path, len(data))

	if conf.ChannelsFile != "" {
		path, err := csvExport.WriteChannels(conf.ChannelsFile, channels)
		if err != nil {
			return err
		}
		logSaved(logger, "channel stats saved", path, len(channels))
	}

	if conf.Postgres != nil {
		postgres, err := storage.NewPostgres(storage.PostgresInfo{
			Host:     conf.Postgres.Host,
			Port:     conf.Postgres.Port,
			User:     conf.Postgres.User,
			Password: conf.Postgres.Password,
			Database: conf.Postgres.Database,
		})
		if err != nil {
			return err
		}
		defer postgres.Close()
		if err := storeRun(ctx, postgres, collection, logger); err != nil {
			return err
		}
	}

	return nil
}

func storeRun(ctx context.Context, repo storage.RunRepository, collection *model.Run, logger *slog.Logger) error {
	if err := repo.SaveRun(ctx, collection); err != nil {
		return err
	}
	logger.Info("run stored", slog.Int("channels", len(collection.Channels)), slog.Int("videos", len(collection.Videos)))

	return nil
}

func logSaved(logger *slog.Logger, msg, path string, rows int) {
	attrs := []any{slog.String("path", path), slog.String("rows", humanize.Comma(int64(rows)))}
	if info, err := os.Stat(path); err == nil {
		attrs = append(attrs, slog.String("size", humanize.Bytes(uint64(info.Size()))))
	}
	logger.Info(msg, attrs...)
}

func getParam(param, def string) string {
	if val, ok := os.LookupEnv(param); ok {
		return val
	}
	return def
}
