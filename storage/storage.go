package storage

import (
	"context"

	"ewintr.nl/ytstats/model"
)

type RunRepository interface {
	SaveRun(ctx context.Context, run *model.Run) error
}
