package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/ah-its-andy/rawbatch/internal/logging"
)

// worker drains the queue until IdlePolls consecutive polls come back empty.
func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	logging.Info.Printf("[Worker %d] starting", id)

	empty := 0
	for {
		job, err := p.queue.Dequeue(ctx, p.cfg.PollInterval)
		if err != nil {
			if ctx.Err() != nil {
				logging.Info.Printf("[Worker %d] context done, stopping", id)
				return
			}
			if !errors.Is(err, ErrEmpty) {
				logging.Error.Printf("[Worker %d] error getting next job from the queue: %v", id, err)
			}
			empty++
			logging.Debug.Printf("[Worker %d] no job found (%d/%d)", id, empty, p.cfg.IdlePolls)
			if empty >= p.cfg.IdlePolls {
				break
			}
			continue
		}

		empty = 0
		p.processJob(ctx, id, job)
	}

	logging.Info.Printf("[Worker %d] queue idle, stopping", id)
}

// processJob never lets a job failure escape: errors and panics are logged.
func (p *Pool) processJob(ctx context.Context, id int, job Job) {
	start := time.Now()
	logging.Info.Printf("[Worker %d] Processing: %s (job %s)", id, job.SourcePath, job.ID)

	if err := p.safeConvert(ctx, job); err != nil {
		p.failed.Add(1)
		logging.Error.Printf("[Worker %d] Conversion failed for %s: %v", id, job.SourcePath, err)
		return
	}

	p.processed.Add(1)
	logging.Info.Printf("[Worker %d] Successfully converted %s -> %s in %v", id, job.SourcePath, job.DestinationPath, time.Since(start))
}

func (p *Pool) safeConvert(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if logging.DebugEnabled() {
				logging.Debug.Printf("panic stack for job %s:\n%s", job.ID, debug.Stack())
			}
			err = fmt.Errorf("panic during conversion: %v", r)
		}
	}()
	return p.conv.Convert(ctx, job.SourcePath, job.IntermediatePath, job.DestinationPath)
}
