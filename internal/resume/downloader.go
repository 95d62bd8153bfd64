package resume

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/imroc/req/v3"
	"github.com/stapply-ai/agent/internal/utils"
	"github.com/stapply-ai/agent/internal/version"
)

const downloadTimeout = 30 * time.Second

// Downloader fetches resumes over HTTP into a local uploads directory.
// Files are named by a fresh UUID so concurrent runs never collide.
type Downloader struct {
	dir  string
	http *req.Client
}

func NewDownloader(dir string) (*Downloader, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	client := req.C().
		SetUserAgent(fmt.Sprintf("%s/%s", version.AppName, version.Version)).
		SetCommonRetryCount(3).
		SetCommonRetryFixedInterval(1 * time.Second).
		SetTimeout(downloadTimeout)
	return &Downloader{
		dir:  dir,
		http: client,
	}, nil
}

// Download fetches the resume at rawURL and returns the local path.
func (d *Downloader) Download(ctx context.Context, rawURL string) (string, error) {
	path := filepath.Join(d.dir, uuid.NewString()+extFor(rawURL))

	resp, err := d.http.R().
		SetContext(ctx).
		SetOutputFile(path).
		Get(rawURL)
	if err != nil {
		return "", fmt.Errorf("download resume: %w", err)
	}
	if resp.IsErrorState() {
		os.Remove(path)
		return "", fmt.Errorf("download resume: %s", resp.Status)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("download resume: %w", err)
	}
	slog.Debug("resume downloaded", "path", path, "size", humanize.Bytes(uint64(info.Size())))
	return path, nil
}

// Remove deletes a downloaded resume. Missing files are not an error.
func (d *Downloader) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// extFor keeps known document extensions and defaults everything else to pdf.
func extFor(rawURL string) string {
	cleaned := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		cleaned = u.Path
	}
	switch ext := strings.ToLower(filepath.Ext(cleaned)); ext {
	case ".pdf", ".doc", ".docx":
		return ext
	default:
		return ".pdf"
	}
}
