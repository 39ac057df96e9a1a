package parser

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	pdflib "github.com/ledongthuc/pdf"
)

const (
	// Glyphs whose baselines differ by at most this many points share a line.
	yTolerance = 3.0
	// A horizontal gap wider than this many points between glyphs is a space.
	xTolerance = 3.0

	defaultPdftotextTimeout = 30 * time.Second
)

var errNoText = errors.New("no text layer")

// PDFParser handles PDF files. It tries the Go library first,
// then falls back to pdftotext if enabled.
type PDFParser struct {
	FallbackPdftotext bool
	Timeout           time.Duration
	Log               *slog.Logger
}

func (p *PDFParser) Extract(ctx context.Context, r io.Reader, filename string) (*Text, error) {
	// ledongthuc/pdf requires a ReaderAt+size and pdftotext a path, so we
	// write to a temp file.
	tmp, err := os.CreateTemp("", "convertor-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	pages, err := extractPDFPages(tmpPath)
	if err == nil && pagesEmpty(pages) {
		err = errNoText
	}
	if err != nil && p.FallbackPdftotext {
		p.logger().Warn("pdf library extraction failed, trying pdftotext",
			"file", filename, "error", err)
		pages, err = p.extractPdftotext(ctx, tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	return &Text{Source: filename, Pages: pages}, nil
}

func (p *PDFParser) logger() *slog.Logger {
	if p.Log != nil {
		return p.Log
	}
	return slog.Default()
}

func extractPDFPages(path string) ([][]string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	numPages := reader.NumPage()
	pages := make([][]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, nil)
			continue
		}
		lines, err := pageLines(page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, lines)
	}
	return pages, nil
}

// pageLines reads glyph positions and rebuilds the page's lines top to
// bottom. Pages whose content stream defeats the positional reader fall
// back to the stream-order plain text.
func pageLines(page pdflib.Page) (lines []string, err error) {
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("read glyphs: %v", r)
			}
		}()
		lines = glyphLines(page.Content().Text)
	}()
	if err == nil && len(lines) > 0 {
		return lines, nil
	}

	plain, perr := page.GetPlainText(nil)
	if perr != nil {
		if err != nil {
			return nil, err
		}
		return nil, perr
	}
	for _, line := range strings.Split(plain, "\n") {
		if line = strings.TrimRight(line, " \t"); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// glyphLines clusters glyphs into lines by baseline and orders each line
// left to right, inserting a space wherever the gap between two glyphs is
// wider than xTolerance.
func glyphLines(glyphs []pdflib.Text) []string {
	if len(glyphs) == 0 {
		return nil
	}

	sorted := make([]pdflib.Text, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var (
		lines [][]pdflib.Text
		lineY float64
	)
	for _, g := range sorted {
		if len(lines) == 0 || math.Abs(lineY-g.Y) > yTolerance {
			lines = append(lines, nil)
			lineY = g.Y
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], g)
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool { return line[i].X < line[j].X })

		var sb strings.Builder
		for i, g := range line {
			if i > 0 {
				prev := line[i-1]
				gap := g.X - (prev.X + prev.W)
				if gap > xTolerance && !strings.HasSuffix(prev.S, " ") && !strings.HasPrefix(g.S, " ") {
					sb.WriteByte(' ')
				}
			}
			sb.WriteString(g.S)
		}
		if s := strings.TrimRight(sb.String(), " "); strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func (p *PDFParser) extractPdftotext(ctx context.Context, path string) ([][]string, error) {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = defaultPdftotextTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "pdftotext", "-enc", "UTF-8", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext: %w", err)
	}
	pages := splitPages(string(out))
	if pagesEmpty(pages) {
		return nil, errNoText
	}
	return pages, nil
}

func pagesEmpty(pages [][]string) bool {
	return (&Text{Pages: pages}).Empty()
}
