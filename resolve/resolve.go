package resolve

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"ewintr.nl/ytstats/fetch"
	"ewintr.nl/ytstats/model"
)

var ErrHandleNotFound = errors.New("handle could not be resolved")

var channelIDRE = regexp.MustCompile(`^UC[a-zA-Z0-9_-]{22}$`)

type Resolver interface {
	Resolve(ctx context.Context, handle string) (model.YoutubeChannelID, error)
}

// ResolveAll resolves handles in order. Entries that already are channel
// ids are passed through without a lookup. Only a handle that does not
// exist upstream gives ErrHandleNotFound, transport and quota errors are
// returned as they are.
func ResolveAll(ctx context.Context, r Resolver, handles []string) ([]model.YoutubeChannelID, error) {
	ids := make([]model.YoutubeChannelID, 0, len(handles))
	for _, handle := range handles {
		handle = strings.TrimSpace(handle)
		if channelIDRE.MatchString(handle) {
			ids = append(ids, model.YoutubeChannelID(handle))
			continue
		}
		id, err := r.Resolve(ctx, handle)
		switch {
		case err == nil:
		case errors.Is(err, fetch.ErrChannelNotFound) && !errors.Is(err, ErrHandleNotFound):
			return nil, fmt.Errorf("%w: %s: %w", ErrHandleNotFound, handle, err)
		default:
			return nil, fmt.Errorf("resolve %s: %w", handle, err)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// Unique drops repeated channel ids, keeping the first occurrence.
func Unique(ids []model.YoutubeChannelID) []model.YoutubeChannelID {
	seen := make(map[model.YoutubeChannelID]bool, len(ids))
	unique := make([]model.YoutubeChannelID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}

	return unique
}
