// Package loopworker runs loop analysis over many files concurrently, the
// batch counterpart to a single synchronous findLoop call.
package loopworker

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/austinkregel/loopfind/internal/config"
	"github.com/austinkregel/loopfind/internal/loopfind"
	"github.com/austinkregel/loopfind/internal/loopstore"
	"github.com/austinkregel/loopfind/internal/pcm"
)

// Result is the outcome of analyzing one file.
type Result struct {
	Path      string
	Loop      *loopfind.FindLoopResult
	Err       error
	FromCache bool
}

// Status reports pool progress.
type Status struct {
	State      string // "idle", "running", "complete"
	Total      int
	Completed  int
	Failed     int
	InProgress int
}

// Pool analyzes a batch of audio files with a bounded number of concurrent
// workers, consulting and updating a result cache as it goes.
type Pool struct {
	mu     sync.Mutex
	cfg    *config.LoopFinderConfig
	store  *loopstore.Store
	status Status
	cancel context.CancelFunc
	running bool

	completed  int64
	failed     int64
	inProgress int64
}

// NewPool creates a worker pool bound to cfg's WorkerPoolSize and backed by
// store for idempotent re-runs.
func NewPool(cfg *config.LoopFinderConfig, store *loopstore.Store) *Pool {
	return &Pool{cfg: cfg, store: store, status: Status{State: "idle"}}
}

// GetStatus returns a snapshot of progress.
func (p *Pool) GetStatus() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.status
	s.Completed = int(atomic.LoadInt64(&p.completed))
	s.Failed = int(atomic.LoadInt64(&p.failed))
	s.InProgress = int(atomic.LoadInt64(&p.inProgress))
	return s
}

// Stop cancels an in-progress run.
func (p *Pool) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
	}
}

// Run analyzes every path in paths, calling onResult as each completes.
// Workers run concurrently up to cfg.WorkerPoolSize; ordering of onResult
// calls is not guaranteed.
func (p *Pool) Run(ctx context.Context, paths []string, onResult func(Result)) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return fmt.Errorf("loopworker: analysis already running")
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.running = true
	p.status = Status{State: "running", Total: len(paths)}
	atomic.StoreInt64(&p.completed, 0)
	atomic.StoreInt64(&p.failed, 0)
	atomic.StoreInt64(&p.inProgress, 0)
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.running = false
		p.status.State = "complete"
		p.mu.Unlock()
		log.Printf("[WORKER] batch complete: %d ok, %d failed", atomic.LoadInt64(&p.completed), atomic.LoadInt64(&p.failed))
	}()

	size := p.cfg.WorkerPoolSize
	if size < 1 {
		size = 1
	}

	jobs := make(chan string, len(paths))
	for _, path := range paths {
		jobs <- path
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < size; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				default:
				}
				path, ok := <-jobs
				if !ok {
					return
				}
				atomic.AddInt64(&p.inProgress, 1)
				result := p.analyze(path)
				atomic.AddInt64(&p.inProgress, -1)
				if result.Err != nil {
					atomic.AddInt64(&p.failed, 1)
					log.Printf("[WORKER] %d: %s: %v", workerID, path, result.Err)
				} else {
					atomic.AddInt64(&p.completed, 1)
				}
				onResult(result)
			}
		}(i)
	}
	wg.Wait()
	return ctx.Err()
}

func (p *Pool) analyze(path string) Result {
	hash, err := loopstore.FileHash(path)
	if err != nil {
		return Result{Path: path, Err: fmt.Errorf("hashing: %w", err)}
	}

	if p.store != nil {
		if entry, ok := p.store.Get(path, hash); ok {
			return Result{Path: path, Loop: entry.Result, FromCache: true}
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return Result{Path: path, Err: fmt.Errorf("opening: %w", err)}
	}
	defer f.Close()

	raw, err := pcm.DecodeWAV(f)
	if err != nil {
		return Result{Path: path, Err: fmt.Errorf("decoding: %w", err)}
	}

	factor := pcm.PickReductionFactor(raw.NumFrames(), p.cfg.FramerateReductionLimit, p.cfg.LengthLimit)
	audio := pcm.ConvertToFloatStereo(raw, factor)
	audio.FillMono()

	result, err := loopfind.FindLoopNoEstimate(audio, p.cfg)
	if err != nil {
		return Result{Path: path, Err: fmt.Errorf("analyzing: %w", err)}
	}

	if p.store != nil {
		p.store.Put(path, hash, result, time.Now().Unix())
	}

	return Result{Path: path, Loop: result}
}
