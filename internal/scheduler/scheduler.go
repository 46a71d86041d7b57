// Package scheduler runs recurring background jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a named unit of background work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler manages cron-scheduled jobs.
type Scheduler struct {
	cron *cron.Cron
	jobs map[string]Job
}

// New creates a scheduler with panic recovery on job runs.
func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		jobs: make(map[string]Job),
	}
}

// AddJob registers a job under a standard 5-field cron spec.
func (s *Scheduler) AddJob(spec string, job Job) error {
	name := job.Name()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}

	_, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()

		if err := job.Run(ctx); err != nil {
			log.Printf("job %s: %v", name, err)
			return
		}
		log.Printf("job %s completed in %s", name, time.Since(start))
	})
	if err != nil {
		return fmt.Errorf("add job %s: %w", name, err)
	}

	s.jobs[name] = job
	return nil
}

// RunJobNow runs a registered job immediately, outside its schedule.
func (s *Scheduler) RunJobNow(ctx context.Context, name string) error {
	job, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("job %s not registered", name)
	}
	return job.Run(ctx)
}

// Start begins executing schedules in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
