package schedulers

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"airdropclient/internal/config"
	"airdropclient/internal/services"
)

var log = config.InitLogger()

// SnapshotJob returns the cron job body for daemon mode. Every tick is a
// complete independent run: fresh fetch, fresh decision, no state carried
// from the previous tick.
func SnapshotJob(ss *services.SnapshotService, backfill bool) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		report, err := ss.RunOnce(ctx, time.Now().Unix(), backfill)
		if err != nil {
			log.Error("Snapshot run failed: ", err)
			return
		}
		if report.Failed() {
			log.Warnf("Snapshot run ended with status %s", report.Status)
		}
	}
}

// Start registers the snapshot job on the given cron spec and starts the
// scheduler. The returned cron can be stopped by the caller on shutdown.
func Start(spec string, ss *services.SnapshotService, backfill bool) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(spec, SnapshotJob(ss, backfill)); err != nil {
		return nil, err
	}
	c.Start()
	log.Infof("Snapshot daemon started with schedule %q (backfill=%v)", spec, backfill)
	return c, nil
}
