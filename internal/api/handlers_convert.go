package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/artgav/amnola-tpp-convertor/internal/docxfile"
	"github.com/artgav/amnola-tpp-convertor/internal/parser"
	"github.com/artgav/amnola-tpp-convertor/internal/pipeline"
	"github.com/artgav/amnola-tpp-convertor/internal/render"
)

// upload is one worksheet file taken from a multipart form.
type upload struct {
	filename string
	data     []byte
}

// errUpload carries the HTTP status for a rejected upload.
type errUpload struct {
	msg  string
	code int
}

func (e *errUpload) Error() string { return e.msg }

// readUpload validates and reads one multipart file part.
func (s *Server) readUpload(fh *multipart.FileHeader) (*upload, error) {
	filename := sanitizeFilename(fh.Filename)
	if !parser.IsSupportedExtension(filename) {
		return nil, &errUpload{fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest}
	}

	f, err := fh.Open()
	if err != nil {
		return nil, &errUpload{"failed to open file", http.StatusInternalServerError}
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, &errUpload{"failed to read file", http.StatusInternalServerError}
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, &errUpload{fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge}
	}
	return &upload{filename: filename, data: data}, nil
}

// formUpload parses a single-file multipart request. On failure it has
// already written the error response.
func (s *Server) formUpload(w http.ResponseWriter, r *http.Request) (*upload, bool) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}

	_, header, err := r.FormFile("file")
	if err != nil {
		r.MultipartForm.RemoveAll()
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	up, err := s.readUpload(header)
	if err != nil {
		r.MultipartForm.RemoveAll()
		code := http.StatusBadRequest
		var ue *errUpload
		if errors.As(err, &ue) {
			code = ue.code
		}
		jsonError(w, err.Error(), code)
		return nil, false
	}
	return up, true
}

// convert runs extraction, parsing and rendering synchronously.
func (s *Server) convert(w http.ResponseWriter, r *http.Request) (*pipeline.Result, bool) {
	up, ok := s.formUpload(w, r)
	if !ok {
		return nil, false
	}
	defer r.MultipartForm.RemoveAll()

	res, err := pipeline.Convert(r.Context(), s.orchestrator.Processor().Extractor, bytes.NewReader(up.data), up.filename)
	if err != nil {
		s.log.Warn("conversion failed", "filename", up.filename, "error", err)
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return nil, false
	}
	return res, true
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	res, ok := s.convert(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := docxfile.Write(&buf, res.Document); err != nil {
		s.log.Error("write document failed", "error", err)
		jsonError(w, "failed to write document", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", docxfile.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.OutputName))
	w.Header().Set("X-Worksheet-Title", headerSafe(res.Title))
	w.Header().Set("X-Worksheet-Folder", headerSafe(res.Folder))
	w.Write(buf.Bytes())
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	res, ok := s.convert(w, r)
	if !ok {
		return
	}

	page, err := render.HTML(res.Document)
	if err != nil {
		s.log.Error("render preview failed", "error", err)
		jsonError(w, "failed to render preview", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}

// headerSafe drops control characters so a worksheet value fits in a header.
func headerSafe(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
