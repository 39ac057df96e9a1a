package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// BatchReport summarises one inbox run.
type BatchReport struct {
	Converted []string
	Skipped   []string
	Failed    map[string]error
}

// Err returns a summary error when any file failed.
func (r BatchReport) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	names := make([]string, 0, len(r.Failed))
	for name := range r.Failed {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Errorf("%d of %d files failed: %s",
		len(r.Failed), len(r.Failed)+len(r.Converted)+len(r.Skipped), strings.Join(names, ", "))
}

// Batch converts every PDF waiting in an inbox directory.
type Batch struct {
	Processor *Processor
	InputDir  string
	Force     bool
	Log       *slog.Logger
}

// EnsureDirs creates the inbox, output and processed directories.
func (b *Batch) EnsureDirs() error {
	for _, dir := range []string{b.InputDir, b.Processor.OutputDir, b.Processor.ProcessedDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// Pending lists the inbox PDFs in name order.
func (b *Batch) Pending() ([]string, error) {
	entries, err := os.ReadDir(b.InputDir)
	if err != nil {
		return nil, fmt.Errorf("read inbox: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), ".pdf") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Run processes each pending file in turn. A failing file is logged and
// reported but does not stop the run; only context cancellation does.
func (b *Batch) Run(ctx context.Context) (BatchReport, error) {
	report := BatchReport{Failed: map[string]error{}}

	if err := b.EnsureDirs(); err != nil {
		return report, err
	}
	names, err := b.Pending()
	if err != nil {
		return report, err
	}
	b.Log.Info("batch started", "inbox", b.InputDir, "files", len(names))

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		out, err := b.Processor.Process(ctx, Source{
			Name:  name,
			Path:  filepath.Join(b.InputDir, name),
			Force: b.Force,
		}, nil)
		switch {
		case err != nil:
			b.Log.Error("conversion failed", "file", name, "error", err)
			report.Failed[name] = err
		case out.Skipped():
			report.Skipped = append(report.Skipped, name)
		default:
			b.Log.Info("moved to processed folder", "file", name, "output", out.OutputPath)
			report.Converted = append(report.Converted, name)
		}
	}

	b.Log.Info("batch finished",
		"converted", len(report.Converted), "skipped", len(report.Skipped), "failed", len(report.Failed))
	return report, nil
}
