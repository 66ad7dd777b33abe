package render

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Fetcher downloads source archives into the output directory. Failures are
// fatal to the render; there is no retry.
type Fetcher struct {
	client *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{client: &http.Client{}}
}

// Fetch downloads url into destDir under its basename. An already existing
// file is kept as-is. The download goes to a temp file first so an aborted
// transfer never leaves a truncated archive behind.
func (f *Fetcher) Fetch(url, destDir string) error {
	destPath := filepath.Join(destDir, path.Base(url))
	if _, err := os.Stat(destPath); err == nil {
		log.Debug("source already present", "path", destPath)
		return nil
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	log.Debug("fetching source", "url", url)
	resp, err := f.client.Get(url)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: HTTP %d", url, resp.StatusCode)
	}

	tmpPath := destPath + ".tmp"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	_, err = io.Copy(out, resp.Body)
	out.Close()
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming file: %w", err)
	}

	return nil
}
