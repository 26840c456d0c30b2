package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ah-its-andy/rawbatch/internal/logging"
)

type PoolConfig struct {
	Workers      int
	PollInterval time.Duration
	// IdlePolls is the number of consecutive empty polls after which a worker exits.
	IdlePolls int
}

func DefaultPoolConfig() PoolConfig {
	return PoolConfig{Workers: 2, PollInterval: 5 * time.Second, IdlePolls: 3}
}

// Stats counts job outcomes across all workers.
type Stats struct {
	Processed int64
	Failed    int64
}

// Pool drains a Queue with a fixed number of workers. It assumes the queue
// is fully populated before Start: workers treat a run of empty polls as
// the end of input.
type Pool struct {
	cfg   PoolConfig
	queue *Queue
	conv  Converter
	wg    sync.WaitGroup

	processed atomic.Int64
	failed    atomic.Int64
}

func NewPool(cfg PoolConfig, q *Queue, conv Converter) *Pool {
	def := DefaultPoolConfig()
	if cfg.Workers < 1 {
		cfg.Workers = def.Workers
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.IdlePolls < 1 {
		cfg.IdlePolls = def.IdlePolls
	}
	return &Pool{cfg: cfg, queue: q, conv: conv}
}

// Start launches the workers and returns immediately.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	logging.Info.Printf("Started %d conversion workers", p.cfg.Workers)
}

// Wait blocks until every worker has exited.
func (p *Pool) Wait() {
	p.wg.Wait()
	logging.Info.Println("All workers stopped")
}

// Run starts the workers and waits for them.
func (p *Pool) Run(ctx context.Context) {
	p.Start(ctx)
	p.Wait()
}

func (p *Pool) Stats() Stats {
	return Stats{Processed: p.processed.Load(), Failed: p.failed.Load()}
}
