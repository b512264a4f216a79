package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// Cron wraps robfig/cron with context-taking jobs and panic recovery.
type Cron struct {
	c *cron.Cron
}

func NewCron(loc *time.Location) *Cron {
	if loc == nil {
		loc = time.Local
	}
	return &Cron{c: cron.New(cron.WithLocation(loc), cron.WithChain(cron.Recover(cron.DefaultLogger)))}
}

func (cr *Cron) Start() { cr.c.Start() }

func (cr *Cron) Stop() {
	ctx := cr.c.Stop()
	<-ctx.Done()
}

// Add schedules fn on the given cron expression.
func (cr *Cron) Add(expr string, fn func(ctx context.Context)) (cron.EntryID, error) {
	return cr.c.AddFunc(expr, func() { fn(context.Background()) })
}
