package instrument

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/infiotinc/lmsgql/client"
)

// Logging logs one entry per operation, at debug level when it succeeds and warn level otherwise
func Logging(logger *zap.Logger) client.Wrapper {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(ctx context.Context, action client.Action, op client.OperationInfo) error {
		start := time.Now()

		err := action(ctx, nil)

		fields := []zap.Field{
			zap.String("operation", op.Name),
			zap.String("kind", string(op.Kind)),
			zap.Duration("duration", time.Since(start)),
		}

		if err != nil {
			logger.Warn("graphql operation failed", append(fields,
				zap.String("outcome", string(Classify(err))),
				zap.Error(err),
			)...)

			return err
		}

		logger.Debug("graphql operation", fields...)

		return nil
	}
}
