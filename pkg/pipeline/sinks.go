package pipeline

import (
	"context"

	"github.com/yegor77/pipeline-portwatch/pkg/db/clickhouse"
	"github.com/yegor77/pipeline-portwatch/pkg/redis"
	"github.com/yegor77/pipeline-portwatch/pkg/utils"
	"go.uber.org/zap"
)

// AttachSinks connects the warehouse and the event publisher enabled in the
// configuration and returns their close functions. A sink that cannot be
// reached is logged and left out.
func (s *Stages) AttachSinks(ctx context.Context, component string) []func() error {
	var closers []func() error

	if s.Config.ClickHouseEnabled {
		ch, err := clickhouse.New(ctx, s.Logger, utils.Env("CLICKHOUSE_DB", "portwatch"), component)
		if err != nil {
			s.Logger.Warn("ClickHouse warehouse disabled", zap.Error(err))
		} else if err := ch.InitCurated(ctx); err != nil {
			s.Logger.Warn("ClickHouse warehouse disabled", zap.Error(err))
			_ = ch.Close()
		} else {
			s.Warehouse = ch
			closers = append(closers, ch.Close)
		}
	}

	if s.Config.RedisEnabled {
		rc, err := redis.NewClient(ctx, s.Logger)
		if err != nil {
			s.Logger.Warn("Redis events disabled", zap.Error(err))
		} else {
			s.Publisher = rc
			closers = append(closers, rc.Close)
		}
	}

	return closers
}
