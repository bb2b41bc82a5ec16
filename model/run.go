package model

import (
	"time"

	"github.com/google/uuid"
)

// Run is one complete collection, as persisted by the run store.
type Run struct {
	ID        uuid.UUID
	StartedAt time.Time
	Channels  []ChannelSummary
	Videos    Dataset
}

func NewRun(startedAt time.Time) *Run {
	return &Run{
		ID:        uuid.New(),
		StartedAt: startedAt,
	}
}
