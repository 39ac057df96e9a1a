package pipeline

import (
	"context"
	"log/slog"
)

// Worker processes queued conversion jobs.
type Worker struct {
	processor *Processor
	log       *slog.Logger
}

func NewWorker(p *Processor, log *slog.Logger) *Worker {
	return &Worker{processor: p, log: log}
}

// Process runs the conversion for a job and records its final state.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	out, err := w.processor.Process(ctx, Source{
		Name:  job.Filename,
		Data:  job.FileData(),
		Force: job.Force,
	}, func(status JobStatus) {
		job.SetStatus(status, string(status))
	})

	job.mu.Lock()
	phase := job.Phase
	job.mu.Unlock()

	switch {
	case err != nil:
		log.Error("job failed", "phase", phase, "error", err)
		job.AddError(err.Error())
		job.finish(nil)
		job.SetStatus(StatusFailed, phase)
	case out.Skipped():
		log.Info("job skipped as duplicate")
		job.finish(out)
		job.SetStatus(StatusDupSkipped, "dedup")
	default:
		log.Info("job completed", "output", out.OutputPath)
		job.finish(out)
		job.SetStatus(StatusCompleted, "done")
	}
}
