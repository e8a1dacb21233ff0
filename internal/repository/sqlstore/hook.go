package sqlstore

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

type slowQueryHook struct {
	threshold time.Duration
	logger    *zap.Logger
}

var _ bun.QueryHook = (*slowQueryHook)(nil)

func newSlowQueryHook(threshold time.Duration, logger *zap.Logger) *slowQueryHook {
	return &slowQueryHook{threshold: threshold, logger: logger}
}

func (h *slowQueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *slowQueryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	elapsed := time.Since(event.StartTime)
	if elapsed < h.threshold {
		return
	}
	fields := []zap.Field{
		zap.String("operation", event.Operation()),
		zap.Duration("duration", elapsed),
		zap.String("query", event.Query),
	}
	if event.Err != nil {
		fields = append(fields, zap.Error(event.Err))
	}
	h.logger.Warn("slow query", fields...)
}
