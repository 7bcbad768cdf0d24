package utils

import (
	"log"
	"time"

	"github.com/tendai-dev/SLIZ/config"
	"github.com/tendai-dev/SLIZ/scorm"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[SCORM-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// StartScormScheduler periodically re-runs the SCORM package integration so
// packages dropped into the courses directory appear in the catalog without
// a restart. Returns the cron runner so callers can stop it.
func StartScormScheduler(integrator *scorm.Integrator) *cron.Cron {
	c := cron.New()

	spec := config.AppConfig.ScormRescanCron
	_, err := c.AddFunc(spec, func() {
		logScheduler("Rescanning SCORM courses directory...")
		if err := integrator.Sync(); err != nil {
			logScheduler("Rescan failed: " + err.Error())
			return
		}
		logScheduler("Rescan completed")
	})
	if err != nil {
		log.Printf("Invalid SCORM_RESCAN_CRON %q: %v. Scheduler disabled.", spec, err)
		return c
	}

	c.Start()
	logScheduler("Started with spec " + spec)
	return c
}
