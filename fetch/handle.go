package fetch

import (
	"context"
	"fmt"
	"strings"

	"ewintr.nl/ytstats/model"
)

// Resolve looks up the channel id behind a handle, with or without the
// leading @.
func (y *Youtube) Resolve(ctx context.Context, handle string) (model.YoutubeChannelID, error) {
	call := y.Client.Channels.
		List([]string{"id"}).
		ForHandle("@" + strings.TrimPrefix(handle, "@")).
		Context(ctx)

	response, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("look up handle %s: %w", handle, err)
	}
	if len(response.Items) == 0 || response.Items[0].Id == "" {
		return "", fmt.Errorf("%w: %s", ErrChannelNotFound, handle)
	}

	return model.YoutubeChannelID(response.Items[0].Id), nil
}
