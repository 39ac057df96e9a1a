// Package docxfile converts between document trees and Word .docx files.
package docxfile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/artgav/amnola-tpp-convertor/internal/doctree"
)

// ContentType is the MIME type of a .docx file.
const ContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Build lays the tree out as a go-docx document.
func Build(tree *doctree.DocTree) *docx.Docx {
	doc := docx.New().WithDefaultTheme()

	for _, p := range tree.Paragraphs {
		para := doc.AddParagraph()
		if p.Align != "" {
			para.Justification(string(p.Align))
		}
		for _, r := range p.Runs {
			addRun(para, r, tree)
		}
	}
	return doc
}

func addRun(para *docx.Paragraph, r *doctree.Run, tree *doctree.DocTree) {
	run := para.AddText(r.Text)

	font := r.Font
	if font == "" {
		font = tree.Font
	}
	if font != "" {
		run.Font(font, font, font, "")
	}
	size := r.Size
	if size == 0 {
		size = tree.Size
	}
	if size > 0 {
		// w:sz is measured in half-points.
		run.Size(strconv.Itoa(size * 2))
	}
	if r.Bold {
		run.Bold()
	}
	if r.Italic {
		run.Italic()
	}
	if r.Underline {
		run.Underline("single")
	}
	if r.Color != "" {
		run.Color(r.Color)
	}

	// Header runs end with a space that Word drops unless preserved.
	for _, c := range run.Children {
		if t, ok := c.(*docx.Text); ok {
			t.XMLSpace = "preserve"
		}
	}
}

// Write encodes the tree as a .docx stream.
func Write(w io.Writer, tree *doctree.DocTree) error {
	if _, err := Build(tree).WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

// Save writes the tree to path, creating parent directories. The file is
// written under a temporary name and renamed into place so a failed write
// never leaves a truncated document behind.
func Save(path string, tree *doctree.DocTree) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".convertor-*.docx")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := Write(tmp, tree); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Read decodes a .docx stream back into a tree. Only paragraphs, runs and
// the formatting Build emits are recovered; tables and drawings are skipped.
func Read(r io.ReaderAt, size int64) (*doctree.DocTree, error) {
	doc, err := docx.Parse(r, size)
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	tree := &doctree.DocTree{}
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		p := tree.AddParagraph("")
		if para.Properties != nil && para.Properties.Justification != nil {
			p.Align = doctree.Align(para.Properties.Justification.Val)
		}
		for _, child := range para.Children {
			if run, ok := child.(*docx.Run); ok {
				p.Runs = append(p.Runs, readRun(run))
			}
		}
	}
	return tree, nil
}

// Open reads the .docx file at path.
func Open(path string) (*doctree.DocTree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", filepath.Base(path), err)
	}
	tree, err := Read(f, info.Size())
	if err != nil {
		return nil, err
	}
	tree.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return tree, nil
}

func readRun(run *docx.Run) *doctree.Run {
	var sb strings.Builder
	for _, c := range run.Children {
		switch v := c.(type) {
		case *docx.Text:
			sb.WriteString(v.Text)
		case *docx.Tab:
			sb.WriteByte('\t')
		case *docx.BarterRabbet:
			sb.WriteByte('\n')
		}
	}

	out := &doctree.Run{Text: sb.String()}
	props := run.RunProperties
	if props == nil {
		return out
	}
	if props.Fonts != nil {
		out.Font = props.Fonts.ASCII
	}
	if props.Size != nil {
		if halfPoints, err := strconv.Atoi(props.Size.Val); err == nil {
			out.Size = halfPoints / 2
		}
	}
	out.Bold = props.Bold != nil
	out.Italic = props.Italic != nil
	out.Underline = props.Underline != nil && props.Underline.Val != "none"
	if props.Color != nil {
		out.Color = props.Color.Val
	}
	return out
}
