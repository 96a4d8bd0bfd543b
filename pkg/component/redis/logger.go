package redis

import (
	"context"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"
)

// loggingAdapter adapts the unified logger to the go-redis logger interface.
type loggingAdapter struct{}

// Printf logs go-redis internal messages through the unified logger.
func (l *loggingAdapter) Printf(ctx context.Context, format string, v ...interface{}) {
	logger.Global().WithCtx(ctx).Infof(format, v...)
}

func init() {
	goredis.SetLogger(&loggingAdapter{})
}
