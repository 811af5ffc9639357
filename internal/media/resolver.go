package media

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/xelth-com/bizziosync/internal/catalog"
	"github.com/xelth-com/bizziosync/internal/config"
	"github.com/xelth-com/bizziosync/internal/models"
	"github.com/xelth-com/bizziosync/internal/services/bizzio"
)

// SubDir is the folder under the upload root owned by the importer
const SubDir = "bizzio"

const maxImageSize = 20 << 20

// ValidationError rejects a single image without failing its owner
type ValidationError struct {
	URL    string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid image %q: %s", e.URL, e.Reason)
}

// DownloadError means the image host could not deliver the file
type DownloadError struct {
	URL    string
	Status int
	Err    error
}

func (e *DownloadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("failed to download %s: HTTP %d", e.URL, e.Status)
	}
	return fmt.Sprintf("failed to download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// Resolver turns remote image descriptors into local attachments
type Resolver struct {
	catalog    catalog.Store
	dir        string
	HttpClient *http.Client
	now        func() time.Time
}

// NewResolver creates a resolver storing files under <UploadDir>/bizzio
func NewResolver(store catalog.Store, cfg config.MediaConfig) *Resolver {
	timeout := cfg.ImageTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Resolver{
		catalog:    store,
		dir:        filepath.Join(cfg.UploadDir, SubDir),
		HttpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

// Dir returns the directory holding downloaded files
func (r *Resolver) Dir() string {
	return r.dir
}

// Resolve returns the attachment for img, reusing an earlier download of
// the same remote asset id when there is one.
func (r *Resolver) Resolve(ctx context.Context, ownerID uint, img bizzio.Image) (uint, error) {
	existing, err := r.catalog.FindAttachmentByRemoteID(ctx, img.ID)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return existing.ID, nil
	}

	att, err := r.download(ctx, img.URI, img.Name)
	if err != nil {
		return 0, err
	}
	att.OwnerID = ownerID
	att.OwnerType = "product"
	att.RemoteID = img.ID

	if err := r.catalog.CreateAttachment(ctx, att); err != nil {
		os.Remove(att.Path)
		return 0, err
	}
	return att.ID, nil
}

// SetCategoryThumbnail always downloads the image and points the category
// thumbnail at the new attachment.
func (r *Resolver) SetCategoryThumbnail(ctx context.Context, categoryID uint, img bizzio.Image) error {
	att, err := r.download(ctx, img.URI, img.Name)
	if err != nil {
		return err
	}
	att.OwnerID = categoryID
	att.OwnerType = "category"

	if err := r.catalog.CreateAttachment(ctx, att); err != nil {
		os.Remove(att.Path)
		return err
	}
	return r.catalog.SetCategoryThumbnail(ctx, categoryID, att.ID)
}

// RemoveAll deletes every downloaded file
func (r *Resolver) RemoveAll() error {
	if err := os.RemoveAll(r.dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", r.dir, err)
	}
	return nil
}

func validateURL(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &ValidationError{URL: raw, Reason: "empty url"}
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return nil, &ValidationError{URL: raw, Reason: err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, &ValidationError{URL: raw, Reason: "unsupported scheme " + u.Scheme}
	}
	if u.Host == "" {
		return nil, &ValidationError{URL: raw, Reason: "missing host"}
	}
	return u, nil
}

func (r *Resolver) download(ctx context.Context, rawURL, name string) (*models.Attachment, error) {
	u, err := validateURL(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &DownloadError{URL: rawURL, Err: err}
	}
	resp, err := r.HttpClient.Do(req)
	if err != nil {
		return nil, &DownloadError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &DownloadError{URL: rawURL, Status: resp.StatusCode}
	}

	tmpDir := filepath.Join(r.dir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", tmpDir, err)
	}
	tmp, err := os.CreateTemp(tmpDir, "download-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	size, err := io.Copy(tmp, io.LimitReader(resp.Body, maxImageSize+1))
	tmp.Close()
	if err != nil {
		return nil, &DownloadError{URL: rawURL, Err: err}
	}
	if size > maxImageSize {
		return nil, &ValidationError{URL: rawURL, Reason: "file too large"}
	}

	mtype, err := mimetype.DetectFile(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to detect type of %s: %w", rawURL, err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, &ValidationError{URL: rawURL, Reason: "not an image (" + mtype.String() + ")"}
	}

	id := uuid.New().String()
	fileName := fileNameFor(name, u, mtype.Extension())
	now := r.now()
	destDir := filepath.Join(r.dir, now.Format("2006"), now.Format("01"))
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", destDir, err)
	}
	dest := filepath.Join(destDir, id+"-"+fileName)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return nil, fmt.Errorf("failed to store %s: %w", fileName, err)
	}

	log.Printf("🖼️  Stored image %s (%s, %d bytes)", fileName, mtype.String(), size)

	return &models.Attachment{
		UUID:      id,
		FileName:  fileName,
		Path:      dest,
		MimeType:  mtype.String(),
		Size:      size,
		SourceURL: rawURL,
	}, nil
}

// fileNameFor picks a safe base name, preferring the ERP file name
func fileNameFor(name string, u *url.URL, detectedExt string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == "/" || base == "" {
		base = path.Base(u.Path)
	}
	if base == "." || base == "/" || base == "" {
		base = "image"
	}

	var sb strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	clean := sb.String()
	if filepath.Ext(clean) == "" {
		clean += detectedExt
	}
	return clean
}
