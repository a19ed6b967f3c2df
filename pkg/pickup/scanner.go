package pickup

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultScanInterval is used when no interval is configured.
const DefaultScanInterval = 30 * time.Second

// ScanRoutine periodically drives Engine.ScanTimeouts. The routine owns the
// cadence only; all transition logic lives in the engine, which keeps the
// sweep testable with an injected clock.
type ScanRoutine struct {
	Log      *zap.SugaredLogger
	Engine   *Engine
	Interval time.Duration
}

// Run sweeps until the context is cancelled.
func (sr ScanRoutine) Run(ctx context.Context) {
	interval := sr.Interval
	if interval <= 0 {
		interval = DefaultScanInterval
	}
	sr.Log.Infow("Timeout scanner started", "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			sr.Log.Info("Timeout scanner stopped")
			return
		case now := <-ticker.C:
			closed, err := sr.Engine.ScanTimeouts(ctx, now)
			if err != nil {
				sr.Log.Errorw("Timeout sweep failed", "error", err)
				continue
			}
			if closed > 0 {
				sr.Log.Infow("Timeout sweep closed overdue attempts", "attempts", closed)
			}
		}
	}
}
