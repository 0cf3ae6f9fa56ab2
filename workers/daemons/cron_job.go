package daemons

import (
	"github.com/jasonlvhit/gocron"

	"github.com/zsmartex/vaultex/jobs"
	"github.com/zsmartex/vaultex/jobs/cron"
)

type Worker interface {
	Start()
}

type CronJob struct {
	Jobs []jobs.Job
}

func NewCronJob() *CronJob {
	return &CronJob{
		Jobs: []jobs.Job{&cron.MarketPriceJob{}},
	}
}

func (c *CronJob) Start() {
	for _, job := range c.Jobs {
		job.Process()
		gocron.Every(1).Minute().Do(job.Process)
	}

	<-gocron.Start()
}
