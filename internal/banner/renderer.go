// Package banner renders a batch of prompts into image files.
package banner

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julienpequegnot/bannergen/internal/deepai"
	"github.com/julienpequegnot/bannergen/internal/history"
	"github.com/julienpequegnot/bannergen/internal/logging"
)

// ImageGenerator renders one request into path.
type ImageGenerator interface {
	GenerateAndSave(ctx context.Context, req deepai.Request, path string) error
}

// Recorder stores the outcome of a render.
type Recorder interface {
	Add(rec history.Record) (int64, error)
}

type Job struct {
	PostPath   string
	PostTitle  string
	Request    deepai.Request
	OutputPath string
}

type Result struct {
	Job      Job
	Err      error
	Duration time.Duration
}

func (r Result) OK() bool {
	return r.Err == nil
}

type Renderer struct {
	images   ImageGenerator
	history  Recorder
	parallel int
	logger   *slog.Logger
}

// NewRenderer returns a renderer running at most parallel jobs at once. A nil
// recorder disables history.
func NewRenderer(images ImageGenerator, recorder Recorder, parallel int, logger *slog.Logger) *Renderer {
	if parallel < 1 {
		parallel = 1
	}
	return &Renderer{
		images:   images,
		history:  recorder,
		parallel: parallel,
		logger:   logger,
	}
}

// Render runs every job and returns one result per job, in job order. A
// failed job does not stop the others.
func (r *Renderer) Render(ctx context.Context, runID string, jobs []Job) []Result {
	results := make([]Result, len(jobs))

	var g errgroup.Group
	g.SetLimit(r.parallel)

	for i, job := range jobs {
		g.Go(func() error {
			start := time.Now()
			err := ctx.Err()
			if err == nil {
				err = r.images.GenerateAndSave(ctx, job.Request, job.OutputPath)
			}
			results[i] = Result{Job: job, Err: err, Duration: time.Since(start)}

			log := r.logger.With(logging.KeyRunID, runID, logging.KeyOutput, job.OutputPath)
			if err != nil {
				log.Error("banner failed", logging.KeyError, err)
			} else {
				log.Info("banner saved", "duration", results[i].Duration)
			}
			r.record(runID, results[i])
			return nil
		})
	}
	g.Wait()

	return results
}

func (r *Renderer) record(runID string, res Result) {
	if r.history == nil {
		return
	}

	rec := history.Record{
		RunID:      runID,
		PostPath:   res.Job.PostPath,
		PostTitle:  res.Job.PostTitle,
		Prompt:     res.Job.Request.Prompt,
		Style:      res.Job.Request.Style,
		Version:    res.Job.Request.Version,
		Width:      res.Job.Request.Width,
		Height:     res.Job.Request.Height,
		OutputPath: res.Job.OutputPath,
		Status:     history.StatusOK,
	}
	if res.Err != nil {
		rec.Status = history.StatusFailed
		rec.Error = res.Err.Error()
	}

	if _, err := r.history.Add(rec); err != nil {
		r.logger.Warn("failed to record banner", logging.KeyRunID, runID, logging.KeyError, err)
	}
}

// Summarize counts successes and failures.
func Summarize(results []Result) (ok, failed int) {
	for _, res := range results {
		if res.OK() {
			ok++
		} else {
			failed++
		}
	}
	return ok, failed
}
