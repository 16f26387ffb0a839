package service

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// Weekly full amateur license dump published by the FCC.
	defaultExtractURL = "https://data.fcc.gov/download/pub/uls/complete/l_amat.zip"

	defaultTimeout = 300 * time.Second // the archive is >100MB
	maxRetries     = 3
	initialBackoff = 2 * time.Second
)

// ULSClient downloads the FCC amateur license extract archive.
type ULSClient struct {
	client *http.Client
	url    string
}

// NewULSClient creates a new FCC extract client.
func NewULSClient() *ULSClient {
	return &ULSClient{
		client: &http.Client{
			Timeout: defaultTimeout,
		},
		url: defaultExtractURL,
	}
}

// FetchExtract downloads the weekly archive and unpacks EN.dat and HD.dat
// into destDir, returning the paths to the two files.
func (c *ULSClient) FetchExtract(ctx context.Context, destDir string) (entityPath, statusPath string, err error) {
	archivePath, err := c.fetchArchive(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to download extract: %w", err)
	}
	defer os.Remove(archivePath)

	entityPath, err = unpackFile(archivePath, "EN.dat", destDir)
	if err != nil {
		return "", "", err
	}
	statusPath, err = unpackFile(archivePath, "HD.dat", destDir)
	if err != nil {
		return "", "", err
	}

	return entityPath, statusPath, nil
}

// fetchArchive performs an HTTP GET with exponential backoff retry,
// streaming the body to a temporary file.
func (c *ULSClient) fetchArchive(ctx context.Context) (string, error) {
	var lastErr error
	backoff := initialBackoff

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
				backoff *= 2
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			lastErr = fmt.Errorf("rate limited (HTTP 429)")
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			continue
		}

		tmp, err := os.CreateTemp("", "l_amat-*.zip")
		if err != nil {
			resp.Body.Close()
			return "", fmt.Errorf("failed to create temp file: %w", err)
		}

		_, err = io.Copy(tmp, resp.Body)
		resp.Body.Close()
		tmp.Close()
		if err != nil {
			os.Remove(tmp.Name())
			lastErr = err
			continue
		}

		return tmp.Name(), nil
	}

	return "", fmt.Errorf("failed after %d attempts: %w", maxRetries, lastErr)
}

// unpackFile extracts a single named file from the archive into destDir.
func unpackFile(archivePath, name, destDir string) (string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if !strings.EqualFold(filepath.Base(f.Name), name) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open %s in archive: %w", name, err)
		}
		defer rc.Close()

		destPath := filepath.Join(destDir, name)
		out, err := os.Create(destPath)
		if err != nil {
			return "", fmt.Errorf("failed to create %s: %w", destPath, err)
		}
		defer out.Close()

		if _, err := io.Copy(out, rc); err != nil {
			return "", fmt.Errorf("failed to extract %s: %w", name, err)
		}

		return destPath, nil
	}

	return "", fmt.Errorf("archive does not contain %s", name)
}
