package cleanup

import (
	"context"
	"time"

	"github.com/authgate/authgate/internal/common/constants"
	"github.com/authgate/authgate/internal/common/logger"
	"github.com/authgate/authgate/internal/observability/metrics"
)

type ExpiredDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// Run purges expired sessions on a fixed interval until ctx is
// cancelled. Correctness never depends on it: the store already treats
// expired records as absent.
func Run(ctx context.Context, repo ExpiredDeleter, log *logger.Logger, interval time.Duration) {
	if interval <= 0 {
		interval = constants.SessionCleanupInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := repo.DeleteExpired(ctx)
			if err != nil {
				log.Errorf("session cleanup failed: %v", err)
				continue
			}
			if deleted > 0 {
				metrics.SessionsCleanupDeleted.Add(float64(deleted))
				log.Infof("session cleanup: deleted %d expired sessions", deleted)
			}
		}
	}
}
