// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file runs the background cleanup of expired webhook
// delivery records.
package repo

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RunDeliveryJanitor purges expired delivery rows once immediately and then
// on every tick of the interval, until ctx is cancelled. Purge failures are
// logged and retried on the next tick; dedupe correctness never depends on
// this loop, it only bounds table growth. Callers run it in its own
// goroutine.
func RunDeliveryJanitor(ctx context.Context, db *gorm.DB, every time.Duration) {
	if every <= 0 {
		every = time.Hour
	}

	purge := func() {
		n, err := PurgeExpiredDeliveries(ctx, db, time.Now().UTC())
		if err != nil {
			if ctx.Err() == nil {
				log.Warn().Err(err).Msg("delivery purge failed")
			}
			return
		}
		if n > 0 {
			log.Debug().Int64("purged", n).Msg("expired delivery records removed")
		}
	}

	purge()

	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			purge()
		}
	}
}
