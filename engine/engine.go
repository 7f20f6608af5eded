package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/thisisjab/arrowjq/translator"
)

type Config struct {
	WorkersCount uint `yaml:"workers_count"`
	BufferSize   uint `yaml:"buffer_size"`
}

func (c Config) Validate() error {
	if c.WorkersCount == 0 {
		return errors.New("workers count cannot be zero")
	}

	return nil
}

// TranslateFunc turns one program into a filter.
type TranslateFunc func(src string) (string, error)

// Engine translates batches of jobs on a fixed pool of workers. Every job is
// translated independently; the pool only decides how many run at once.
type Engine struct {
	cfg       Config
	logger    *slog.Logger
	translate TranslateFunc
}

func New(cfg Config, logger *slog.Logger) (*Engine, error) {
	return NewWithTranslator(cfg, logger, translator.Translate)
}

func NewWithTranslator(cfg Config, logger *slog.Logger, translate TranslateFunc) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if translate == nil {
		return nil, errors.New("no translate function is configured")
	}

	return &Engine{
		cfg:       cfg,
		logger:    logger,
		translate: translate,
	}, nil
}

func (e *Engine) WorkersCount() uint {
	return e.cfg.WorkersCount
}

// Run translates jobs and returns one result per job, ordered by source and
// line. If ctx ends first, the results gathered so far are returned along
// with the context's error.
func (e *Engine) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pending := make(chan Job, e.cfg.BufferSize)
	results := make(chan Result, e.cfg.BufferSize)

	go func() {
		defer close(pending)
		for _, j := range jobs {
			select {
			case pending <- j:
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	for i := range e.cfg.WorkersCount {
		wg.Go(func() {
			e.work(ctx, i, pending, results)
		})
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	collected := make([]Result, 0, len(jobs))
	for r := range results {
		collected = append(collected, r)
	}

	sortResults(collected)

	if err := ctx.Err(); err != nil && len(collected) < len(jobs) {
		return collected, err
	}

	e.logger.Debug("batch translated", "jobs", len(jobs), "failed", Failed(collected))

	return collected, nil
}

// RunSource reads every job from src and translates them.
func (e *Engine) RunSource(ctx context.Context, src JobSource) ([]Result, error) {
	jobs, err := src.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read source %s: %w", src.Name(), err)
	}

	e.logger.Info("read jobs from source", "source", src.Name(), "count", len(jobs))

	return e.Run(ctx, jobs)
}

func (e *Engine) work(ctx context.Context, workerID uint, pending <-chan Job, results chan<- Result) {
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-pending:
			if !ok {
				// The jobs channel is closed and empty. No more work.
				return
			}

			r := Result{Job: j}
			r.Filter, r.Err = e.translate(j.Text)

			if r.Err != nil {
				e.logger.Debug("job failed", "worker_id", workerID, "job_id", j.ID, "line", j.Line, "error", r.Err)
			} else {
				e.logger.Debug("job translated", "worker_id", workerID, "job_id", j.ID, "line", j.Line)
			}

			select {
			case results <- r:
			case <-ctx.Done():
				return
			}
		}
	}
}
