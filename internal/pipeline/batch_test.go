package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBatch(t *testing.T) *Batch {
	t.Helper()
	return &Batch{
		Processor: newTestProcessor(t),
		InputDir:  filepath.Join(t.TempDir(), "inbox"),
		Log:       discardLogger(),
	}
}

func writeInbox(t *testing.T, b *Batch, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(b.InputDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(b.InputDir, name), []byte(content), 0o644))
}

func TestBatch_EnsureDirs(t *testing.T) {
	b := newTestBatch(t)
	require.NoError(t, b.EnsureDirs())
	for _, dir := range []string{b.InputDir, b.Processor.OutputDir, b.Processor.ProcessedDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestBatch_Pending(t *testing.T) {
	b := newTestBatch(t)
	writeInbox(t, b, "b.pdf", "x")
	writeInbox(t, b, "a.pdf", "x")
	writeInbox(t, b, "notes.txt", "x")
	require.NoError(t, os.Mkdir(filepath.Join(b.InputDir, "dir.pdf"), 0o755))

	names, err := b.Pending()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, names)
}

func TestBatch_Run(t *testing.T) {
	b := newTestBatch(t)
	writeInbox(t, b, "smith.pdf", worksheetText)
	writeInbox(t, b, "jones.pdf", `Event Worksheet
04/01/2026 Wednesday
Event Title:
Jones Retirement
Lunch
Menu Item:
Sandwich Platter 40 ppl
`)

	report, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.NoError(t, report.Err())
	assert.Equal(t, []string{"jones.pdf", "smith.pdf"}, report.Converted)

	for _, name := range []string{"Smith Wedding.docx", "Jones Retirement.docx"} {
		_, err := os.Stat(filepath.Join(b.Processor.OutputDir, name))
		assert.NoError(t, err, name)
	}
	remaining, err := b.Pending()
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestBatch_RunSkipsDuplicates(t *testing.T) {
	b := newTestBatch(t)
	writeInbox(t, b, "smith.pdf", worksheetText)
	_, err := b.Run(context.Background())
	require.NoError(t, err)

	writeInbox(t, b, "smith-again.pdf", worksheetText)
	report, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"smith-again.pdf"}, report.Skipped)
	assert.Empty(t, report.Converted)

	remaining, err := b.Pending()
	require.NoError(t, err)
	assert.Equal(t, []string{"smith-again.pdf"}, remaining, "duplicates stay in the inbox")

	b.Force = true
	report, err = b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"smith-again.pdf"}, report.Converted)
}

func TestBatch_RunContinuesAfterFailure(t *testing.T) {
	b := newTestBatch(t)
	b.Processor.Uploader = &fakeUploader{failures: 1, err: assert.AnError}
	writeInbox(t, b, "a.pdf", worksheetText)
	writeInbox(t, b, "b.pdf", "Event Title:\nOther Party\nLunch\nMenu Item:\nSoup\n")

	report, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Contains(t, report.Failed, "a.pdf")
	assert.Equal(t, []string{"b.pdf"}, report.Converted)
	require.Error(t, report.Err())
	assert.Contains(t, report.Err().Error(), "1 of 2 files failed: a.pdf")
}

func TestBatch_RunCancelled(t *testing.T) {
	b := newTestBatch(t)
	writeInbox(t, b, "a.pdf", worksheetText)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
