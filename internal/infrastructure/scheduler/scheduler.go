package scheduler

import (
	"context"
	"sync"
	"time"

	"crm_backend/pkg/logger"
)

// Job is a named periodic task. Run is retried up to MaxRetries times with a
// fixed delay before the attempt is abandoned until the next tick.
type Job struct {
	Name       string
	Interval   time.Duration
	MaxRetries int
	RetryDelay time.Duration
	Run        func(ctx context.Context) error
}

type Scheduler struct {
	jobs []Job
	log  logger.Logger
	wg   sync.WaitGroup
}

func New(log logger.Logger) *Scheduler {
	return &Scheduler{log: log}
}

func (s *Scheduler) Add(job Job) {
	s.jobs = append(s.jobs, job)
}

// Start launches one ticker loop per job and blocks until ctx is cancelled
// and every in-flight run has finished. Jobs also run once at startup.
func (s *Scheduler) Start(ctx context.Context) {
	for _, job := range s.jobs {
		s.wg.Add(1)
		go func(job Job) {
			defer s.wg.Done()
			s.runLoop(ctx, job)
		}(job)
	}
	s.wg.Wait()
}

func (s *Scheduler) runLoop(ctx context.Context, job Job) {
	s.log.Info("job scheduled",
		logger.String("job", job.Name),
		logger.String("interval", job.Interval.String()),
	)

	s.execute(ctx, job)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("job stopped", logger.String("job", job.Name))
			return
		case <-ticker.C:
			s.execute(ctx, job)
		}
	}
}

// execute runs the job once, retrying failures with a fixed delay. After the
// retries are spent the error is logged and the job waits for its next tick.
func (s *Scheduler) execute(ctx context.Context, job Job) {
	var err error
	for attempt := 0; attempt <= job.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(job.RetryDelay):
			}
		}

		if err = job.Run(ctx); err == nil {
			if attempt > 0 {
				s.log.Info("job recovered",
					logger.String("job", job.Name),
					logger.Int("attempt", attempt+1),
				)
			}
			return
		}

		s.log.Warn("job run failed",
			logger.String("job", job.Name),
			logger.Int("attempt", attempt+1),
			logger.Error(err),
		)
	}

	s.log.Error("job exhausted retries",
		logger.String("job", job.Name),
		logger.Int("max_retries", job.MaxRetries),
		logger.Error(err),
	)
}
