package core

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// RunClock ticks every registered room's playback clock at the given period
// for the life of ctx, so a room with no client activity still detects track
// completion.
func (g *Registry) RunClock(ctx context.Context, period time.Duration) {
	if period <= 0 {
		period = time.Second
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	log.Info().Str("module", "core.clock").Dur("period", period).Msg("playback clock started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "core.clock").Msg("playback clock stopped")
			return
		case now := <-ticker.C:
			for _, room := range g.Rooms() {
				room.Tick(now)
			}
		}
	}
}
