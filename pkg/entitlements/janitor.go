package entitlements

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Janitor periodically evicts expired cache entries so long-idle users
// do not pin memory until LRU pressure reaches them.
type Janitor struct {
	cache *Cache
	cron  *cron.Cron
	log   *logrus.Logger
}

// NewJanitor creates a janitor sweeping the cache at the given interval.
func NewJanitor(cache *Cache, every time.Duration, log *logrus.Logger) (*Janitor, error) {
	if log == nil {
		log = logrus.New()
	}
	if every <= 0 {
		every = 5 * time.Minute
	}

	j := &Janitor{
		cache: cache,
		cron:  cron.New(),
		log:   log,
	}

	_, err := j.cron.AddFunc(fmt.Sprintf("@every %s", every), j.sweep)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule cache sweep: %w", err)
	}

	return j, nil
}

// Start begins the sweep schedule.
func (j *Janitor) Start() {
	j.cron.Start()
}

// Stop halts the schedule; a running sweep finishes first.
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

func (j *Janitor) sweep() {
	if removed := j.cache.PurgeExpired(); removed > 0 {
		j.log.WithField("removed", removed).Debug("evicted expired entitlement cache entries")
	}
}
