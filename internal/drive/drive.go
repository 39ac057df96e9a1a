// Package drive publishes converted menus to Google Drive.
package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	FolderMimeType = "application/vnd.google-apps.folder"
	DocxMimeType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// RetryableError indicates a transient Drive failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable drive error (status %d): %s", e.StatusCode, e.Message)
}

// classify turns rate limits and server errors into RetryableError.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= 500) {
		return fmt.Errorf("%s: %w", op, &RetryableError{StatusCode: apiErr.Code, Message: apiErr.Message})
	}
	return fmt.Errorf("%s: %w", op, err)
}

// filesAPI is the slice of the Drive v3 API the Store uses.
type filesAPI interface {
	List(ctx context.Context, query string) ([]*drive.File, error)
	CreateFolder(ctx context.Context, name, parentID string) (*drive.File, error)
	Upload(ctx context.Context, name, parentID, mimeType string, media io.Reader) (*drive.File, error)
	Delete(ctx context.Context, fileID string) error
	ShareWithAnyone(ctx context.Context, fileID string) error
}

// Uploaded describes a file placed on Drive.
type Uploaded struct {
	FileID      string `json:"file_id"`
	FolderID    string `json:"folder_id"`
	Name        string `json:"name"`
	WebViewLink string `json:"web_view_link"`
}

// Store uploads documents into dated subfolders of a parent Drive folder.
type Store struct {
	api filesAPI
	log *slog.Logger
}

// New builds a Store on an authorized HTTP client (see Client).
func New(ctx context.Context, httpClient *http.Client, log *slog.Logger) (*Store, error) {
	srv, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Store{api: &service{srv: srv}, log: log}, nil
}

// Upload places the local file at path into the subfolder of parentID,
// creating the subfolder if needed. Files of the same name already in the
// subfolder are deleted first. The uploaded file, and any folder created
// here, are shared read-only with anyone holding the link.
func (s *Store) Upload(ctx context.Context, path, parentID, subfolder string) (*Uploaded, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	folderID, err := s.ensureFolder(ctx, parentID, subfolder)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	existing, err := s.api.List(ctx, fmt.Sprintf("'%s' in parents and name='%s' and trashed=false",
		escapeQuery(folderID), escapeQuery(name)))
	if err != nil {
		return nil, classify("list existing files", err)
	}
	for _, old := range existing {
		if err := s.api.Delete(ctx, old.Id); err != nil {
			return nil, classify("delete "+old.Id, err)
		}
		s.log.Info("deleted previous upload", "file_id", old.Id, "name", name)
	}

	file, err := s.api.Upload(ctx, name, folderID, DocxMimeType, f)
	if err != nil {
		return nil, classify("upload "+name, err)
	}
	if err := s.api.ShareWithAnyone(ctx, file.Id); err != nil {
		return nil, classify("share "+file.Id, err)
	}

	s.log.Info("uploaded to drive",
		"name", name, "folder", subfolder, "file_id", file.Id, "link", file.WebViewLink)
	return &Uploaded{
		FileID:      file.Id,
		FolderID:    folderID,
		Name:        name,
		WebViewLink: file.WebViewLink,
	}, nil
}

func (s *Store) ensureFolder(ctx context.Context, parentID, name string) (string, error) {
	found, err := s.api.List(ctx, fmt.Sprintf(
		"'%s' in parents and name='%s' and mimeType='%s' and trashed=false",
		escapeQuery(parentID), escapeQuery(name), FolderMimeType))
	if err != nil {
		return "", classify("find folder "+name, err)
	}
	if len(found) > 0 {
		return found[0].Id, nil
	}

	folder, err := s.api.CreateFolder(ctx, name, parentID)
	if err != nil {
		return "", classify("create folder "+name, err)
	}
	if err := s.api.ShareWithAnyone(ctx, folder.Id); err != nil {
		return "", classify("share folder "+name, err)
	}
	s.log.Info("created drive folder", "name", name, "folder_id", folder.Id)
	return folder.Id, nil
}

// escapeQuery quotes a value for use inside '...' in a Drive search query.
func escapeQuery(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

// service adapts *drive.Service to filesAPI.
type service struct {
	srv *drive.Service
}

func (s *service) List(ctx context.Context, query string) ([]*drive.File, error) {
	var files []*drive.File
	err := s.srv.Files.List().
		Q(query).
		Spaces("drive").
		Fields("nextPageToken, files(id, name)").
		Pages(ctx, func(page *drive.FileList) error {
			files = append(files, page.Files...)
			return nil
		})
	return files, err
}

func (s *service) CreateFolder(ctx context.Context, name, parentID string) (*drive.File, error) {
	return s.srv.Files.Create(&drive.File{
		Name:     name,
		MimeType: FolderMimeType,
		Parents:  []string{parentID},
	}).Fields("id").Context(ctx).Do()
}

func (s *service) Upload(ctx context.Context, name, parentID, mimeType string, media io.Reader) (*drive.File, error) {
	return s.srv.Files.Create(&drive.File{
		Name:    name,
		Parents: []string{parentID},
	}).Media(media, googleapi.ContentType(mimeType)).
		Fields("id, webViewLink").
		Context(ctx).
		Do()
}

func (s *service) Delete(ctx context.Context, fileID string) error {
	return s.srv.Files.Delete(fileID).Context(ctx).Do()
}

func (s *service) ShareWithAnyone(ctx context.Context, fileID string) error {
	_, err := s.srv.Permissions.Create(fileID, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Context(ctx).Do()
	return err
}
