// SPDX-License-Identifier: Apache-2.0

package workers

import (
	"context"
	"time"

	"github.com/paullj1/workout-tracker/internal/logger"
	"github.com/paullj1/workout-tracker/internal/store"
)

// ChallengeSweeper periodically deletes expired ceremony challenges left
// behind by begin calls whose finish never arrived. Inserts already purge
// lazily, so the sweeper only matters for idle deployments where no new
// ceremony would otherwise trigger a purge.
type ChallengeSweeper struct {
	challenges store.ChallengeRepository
	ttl        time.Duration
	interval   time.Duration
	logger     *logger.Logger
}

// NewChallengeSweeper builds a sweeper that purges challenges older than ttl
// every interval.
func NewChallengeSweeper(challenges store.ChallengeRepository, ttl, interval time.Duration, logger *logger.Logger) *ChallengeSweeper {
	return &ChallengeSweeper{
		challenges: challenges,
		ttl:        ttl,
		interval:   interval,
		logger:     logger,
	}
}

// Run implements [Worker]. It spawns the sweep loop and returns immediately.
func (s *ChallengeSweeper) Run() {
	go s.loop()
}

func (s *ChallengeSweeper) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for range ticker.C {
		s.sweep()
	}
}

func (s *ChallengeSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)
	defer cancel()

	purged, err := s.challenges.PurgeExpiredChallenges(ctx, s.ttl)
	if err != nil {
		s.logger.Err(err).Str("func", "*ChallengeSweeper.sweep").Msg("purging expired challenges failed")
		return
	}
	if purged > 0 {
		s.logger.Debug().Int64("purged", purged).Msg("swept expired challenges")
	}
}
