package resume

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownloaderFetchesToUploadsDir(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 fake resume"))
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "uploads")
	d, err := NewDownloader(dir)
	require.NoError(t, err)

	path, err := d.Download(context.Background(), srv.URL+"/files/resume.docx?token=abc")
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, ".docx", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake resume", string(data))

	require.NoError(t, d.Remove(path))
	assert.NoFileExists(t, path)

	// removing twice is fine
	require.NoError(t, d.Remove(path))
	require.NoError(t, d.Remove(""))
}

func TestDownloaderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	dir := t.TempDir()
	d, err := NewDownloader(dir)
	require.NoError(t, err)

	path, err := d.Download(context.Background(), srv.URL+"/missing.pdf")
	require.Error(t, err)
	assert.Empty(t, path)

	// no partial files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExtFor(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://cdn.example.com/resume.pdf", ".pdf"},
		{"https://cdn.example.com/resume.PDF", ".pdf"},
		{"https://cdn.example.com/resume.doc", ".doc"},
		{"https://cdn.example.com/resume.docx?sig=xyz", ".docx"},
		{"https://cdn.example.com/resume.txt", ".pdf"},
		{"https://cdn.example.com/resume", ".pdf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extFor(tt.url), "url: %s", tt.url)
	}
}
