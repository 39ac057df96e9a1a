package pipeline

import (
	"testing"
	"time"

	"github.com/artgav/amnola-tpp-convertor/internal/drive"
	"github.com/artgav/amnola-tpp-convertor/internal/history"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	// SHA-256 of "hello world" is well-known.
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h := ContentHashHex([]byte{}); h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestNewJob(t *testing.T) {
	job := NewJob("smith.pdf", []byte("hello world"), true)
	if job.Status != StatusQueued || job.Phase != "queued" {
		t.Errorf("expected queued job, got %q/%q", job.Status, job.Phase)
	}
	if !job.Force {
		t.Error("expected force to be kept")
	}
	if job.ContentHash != ContentHashHex([]byte("hello world")) {
		t.Errorf("unexpected content hash %q", job.ContentHash)
	}
	if string(job.FileData()) != "hello world" {
		t.Errorf("expected file data to be kept")
	}
	if len(job.ID) != 26 {
		t.Errorf("expected ULID job id, got %q", job.ID)
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := NewJob("a.pdf", nil, false)

	for _, status := range []JobStatus{
		StatusExtracting, StatusParsing, StatusRendering, StatusUploading, StatusArchiving, StatusCompleted,
	} {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(status, string(status))

		if job.Status != status {
			t.Errorf("expected status %q, got %q", status, job.Status)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", status)
		}
		if status.Terminal() != (status == StatusCompleted) {
			t.Errorf("unexpected Terminal() for %q", status)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("extract failed")
	job.AddError("upload failed")

	snap := job.Snapshot()
	if len(snap.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Errors))
	}
	if snap.Errors[0] != "extract failed" {
		t.Errorf("expected first error %q, got %q", "extract failed", snap.Errors[0])
	}
}

func TestJob_SnapshotEmptyErrors(t *testing.T) {
	snap := (&Job{ID: "x"}).Snapshot()
	if snap.Errors == nil {
		t.Error("expected non-nil errors slice for JSON")
	}
}

func TestJob_SnapshotOutcome(t *testing.T) {
	job := NewJob("a.pdf", []byte("x"), false)
	job.finish(&Outcome{
		Result:     &Result{Title: "Smith Wedding", Folder: "03-14-2026_Friday", Worksheet: sampleResult(t).Worksheet},
		OutputPath: "out/Smith Wedding.docx",
		Upload:     &drive.Uploaded{FileID: "f1", WebViewLink: "https://drive.example/f1"},
	})

	snap := job.Snapshot()
	if snap.Title != "Smith Wedding" || snap.Folder != "03-14-2026_Friday" {
		t.Errorf("unexpected title/folder %q/%q", snap.Title, snap.Folder)
	}
	if snap.DriveFileID != "f1" || snap.WebViewLink != "https://drive.example/f1" {
		t.Errorf("unexpected upload fields %q/%q", snap.DriveFileID, snap.WebViewLink)
	}
	if snap.Sections != 2 {
		t.Errorf("expected 2 sections, got %d", snap.Sections)
	}
	if job.FileData() != nil {
		t.Error("expected file data to be released")
	}

	dup := NewJob("a.pdf", []byte("x"), false)
	dup.finish(&Outcome{Duplicate: &history.Entry{Title: "Earlier", OutputPath: "out/Earlier.docx"}})
	if snap := dup.Snapshot(); snap.Title != "Earlier" || snap.OutputPath != "out/Earlier.docx" {
		t.Errorf("expected duplicate entry fields, got %+v", snap)
	}
}

func TestJobStore_CleanupKeepsInFlight(t *testing.T) {
	store := NewJobStore(time.Minute)
	old := time.Now().Add(-time.Hour)

	done := &Job{ID: "done", Status: StatusCompleted, UpdatedAt: old}
	running := &Job{ID: "running", Status: StatusUploading, UpdatedAt: old}
	fresh := &Job{ID: "fresh", Status: StatusFailed, UpdatedAt: time.Now()}
	for _, j := range []*Job{done, running, fresh} {
		store.Put(j)
	}

	store.Cleanup()

	if store.Get("done") != nil {
		t.Error("expected expired finished job to be removed")
	}
	if store.Get("running") == nil {
		t.Error("expected in-flight job to be kept")
	}
	if store.Get("fresh") == nil {
		t.Error("expected recent job to be kept")
	}
	if store.Len() != 2 {
		t.Errorf("expected 2 jobs, got %d", store.Len())
	}
}
