package usecase

import (
	"context"
	"time"

	"soulsync/internal/domain/model"
)

// Dispatcher runs fire-and-forget work off the request path.
type Dispatcher interface {
	Submit(task func(ctx context.Context) error) error
}

// today is the start of the current server-local day.
func today() time.Time { return model.StartOfDay(time.Now()) }
