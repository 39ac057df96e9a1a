package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/artgav/amnola-tpp-convertor/internal/docxfile"
	"github.com/artgav/amnola-tpp-convertor/internal/drive"
	"github.com/artgav/amnola-tpp-convertor/internal/history"
	"github.com/artgav/amnola-tpp-convertor/internal/parser"
)

// Uploader publishes a converted document; *drive.Store implements it.
type Uploader interface {
	Upload(ctx context.Context, path, parentID, subfolder string) (*drive.Uploaded, error)
}

// Ledger records finished conversions; *history.Store implements it.
type Ledger interface {
	Record(ctx context.Context, e history.Entry) (history.Entry, error)
	ByHash(ctx context.Context, hash string) (history.Entry, bool, error)
}

// Source is one worksheet to process. When Path is set the file is moved
// into the processed directory on success; otherwise Data is written there.
type Source struct {
	Name  string
	Path  string
	Data  []byte
	Force bool
}

// Outcome is what Process produced for one source.
type Outcome struct {
	Result     *Result
	OutputPath string
	Upload     *drive.Uploaded
	Entry      *history.Entry

	// Duplicate is the earlier ledger entry when the source was skipped.
	Duplicate *history.Entry
}

// Skipped reports whether the source was a duplicate and left untouched.
func (o *Outcome) Skipped() bool {
	return o.Duplicate != nil
}

// Processor runs the full conversion for one worksheet: extract, parse,
// render, write the .docx, upload, record and archive the source.
type Processor struct {
	Extractor    parser.Extractor
	OutputDir    string
	ProcessedDir string

	// Uploader is optional; without it documents stay local.
	Uploader Uploader
	ParentID string

	// Ledger is optional; without it there is no duplicate detection.
	Ledger Ledger

	Stats   *Stats
	Log     *slog.Logger
	Backoff func(attempt int) time.Duration
}

// Process converts src, calling report at each phase change. report may be nil.
func (p *Processor) Process(ctx context.Context, src Source, report func(JobStatus)) (out *Outcome, err error) {
	if report == nil {
		report = func(JobStatus) {}
	}
	log := p.Log.With("file", src.Name)
	start := time.Now()
	defer func() {
		status := StatusCompleted
		switch {
		case err != nil:
			status = StatusFailed
		case out.Skipped():
			status = StatusDupSkipped
		}
		if p.Stats != nil {
			p.Stats.Observe(time.Since(start), status)
		}
	}()

	data := src.Data
	if data == nil && src.Path != "" {
		if data, err = os.ReadFile(src.Path); err != nil {
			return nil, fmt.Errorf("read %s: %w", src.Name, err)
		}
	}
	hash := ContentHashHex(data)

	if dup, err := p.duplicate(ctx, hash, src.Force); err != nil {
		log.Warn("dedup check failed, proceeding", "error", err)
	} else if dup != nil {
		log.Info("duplicate worksheet, skipping", "previous", dup.OutputPath, "converted_at", dup.CreatedAt)
		return &Outcome{Duplicate: dup}, nil
	}

	report(StatusExtracting)
	text, err := p.Extractor.Extract(ctx, bytes.NewReader(data), src.Name)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", src.Name, err)
	}

	report(StatusParsing)
	res := FromText(text)
	log.Info("parsed worksheet",
		"title", res.Worksheet.Fields.Title, "sections", res.Sections(), "folder", res.Folder)

	report(StatusRendering)
	out = &Outcome{Result: res, OutputPath: filepath.Join(p.OutputDir, res.OutputName)}
	if err := docxfile.Save(out.OutputPath, res.Document); err != nil {
		return nil, fmt.Errorf("write %s: %w", res.OutputName, err)
	}
	log.Info("wrote document", "path", out.OutputPath)

	if p.Uploader != nil {
		report(StatusUploading)
		err := retry(ctx, log, "upload", p.backoff(), func() error {
			up, err := p.Uploader.Upload(ctx, out.OutputPath, p.ParentID, res.Folder)
			out.Upload = up
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", res.OutputName, err)
		}
	}

	report(StatusArchiving)
	if err := p.archive(src, data); err != nil {
		return nil, fmt.Errorf("archive %s: %w", src.Name, err)
	}

	if p.Ledger != nil {
		entry := history.Entry{
			ContentHash: hash,
			SourceName:  src.Name,
			Title:       res.Title,
			Folder:      res.Folder,
			OutputPath:  out.OutputPath,
			Sections:    res.Sections(),
		}
		if out.Upload != nil {
			entry.DriveFileID = out.Upload.FileID
			entry.WebViewLink = out.Upload.WebViewLink
		}
		recorded, err := p.Ledger.Record(ctx, entry)
		if err != nil {
			log.Error("history record failed", "error", err)
		} else {
			out.Entry = &recorded
		}
	}

	return out, nil
}

// duplicate returns the ledger entry that makes hash a duplicate. Without
// an uploader any earlier conversion counts; with one, only uploaded ones.
func (p *Processor) duplicate(ctx context.Context, hash string, force bool) (*history.Entry, error) {
	if force || p.Ledger == nil {
		return nil, nil
	}
	prev, ok, err := p.Ledger.ByHash(ctx, hash)
	if err != nil || !ok {
		return nil, err
	}
	if p.Uploader != nil && !prev.Uploaded() {
		return nil, nil
	}
	return &prev, nil
}

func (p *Processor) archive(src Source, data []byte) error {
	if p.ProcessedDir == "" {
		return nil
	}
	if err := os.MkdirAll(p.ProcessedDir, 0o755); err != nil {
		return err
	}
	dst := filepath.Join(p.ProcessedDir, src.Name)
	if src.Path == "" {
		return os.WriteFile(dst, data, 0o644)
	}
	return moveFile(src.Path, dst)
}

func (p *Processor) backoff() func(int) time.Duration {
	if p.Backoff != nil {
		return p.Backoff
	}
	return Backoff
}

// moveFile renames src to dst, copying across filesystems when needed.
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
