package drive

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/x4x3r/google-text-to-speach/internal/logging"
)

// Uploader uploads local files to Google Drive.
type Uploader struct {
	srv      *gdrive.Service
	folderID string
	logger   *log.Logger
}

// NewUploader uploads into folderID, or the Drive root when folderID is empty.
func NewUploader(srv *gdrive.Service, folderID string) *Uploader {
	return &Uploader{srv: srv, folderID: folderID, logger: logging.Named("drive")}
}

// Upload implements audio.Uploader using the base name of localPath.
func (u *Uploader) Upload(ctx context.Context, localPath string) (string, string, error) {
	return u.UploadFile(ctx, localPath, "")
}

// UploadFile uploads a file pointed by localPath to the Drive folder.
// dstFileName allows overriding the name. If empty, the base name of localPath is used.
// Returns fileID and webViewLink.
func (u *Uploader) UploadFile(ctx context.Context, localPath, dstFileName string) (string, string, error) {
	if dstFileName == "" {
		dstFileName = filepath.Base(localPath)
	}
	f, err := os.Open(localPath)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	file := &gdrive.File{
		Name:     dstFileName,
		MimeType: mimeTypeFor(dstFileName),
	}
	if u.folderID != "" {
		file.Parents = []string{u.folderID}
	}

	u.logger.Info("uploading", "file", dstFileName, "folder", u.folderID)
	mediaOpts := []googleapi.MediaOption{googleapi.ChunkSize(2 * 1024 * 1024)}
	created, err := u.srv.Files.Create(file).Context(ctx).Media(f, mediaOpts...).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && (gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden) {
			return "", "", fmt.Errorf("drive upload not authorized (re-run with -auth): %w", err)
		}
		return "", "", fmt.Errorf("drive upload failed: %w", err)
	}

	// Request webViewLink via a get.
	got, err := u.srv.Files.Get(created.Id).Fields("id,webViewLink").Context(ctx).Do()
	if err != nil {
		u.logger.Warn("uploaded but could not fetch link", "id", created.Id, "err", err)
		return created.Id, "", nil
	}
	u.logger.Info("uploaded", "id", got.Id, "link", got.WebViewLink)
	return got.Id, got.WebViewLink, nil
}

func mimeTypeFor(name string) string {
	if filepath.Ext(name) == ".wav" {
		return "audio/wav"
	}
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
