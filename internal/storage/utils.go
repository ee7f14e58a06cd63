package storage

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"
)

// ExportFolderPath generates a consistent folder path for chart exports
// Format: YYYY/MM/DD/Comparacao-YYYY-MM-DD-HH-MM-SS
func ExportFolderPath(timestamp time.Time) string {
	timestamp = timestamp.UTC()
	return fmt.Sprintf("%04d/%02d/%02d/Comparacao-%04d-%02d-%02d-%02d-%02d-%02d",
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Year(), timestamp.Month(), timestamp.Day(),
		timestamp.Hour(), timestamp.Minute(), timestamp.Second())
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain"
	case ".html":
		return "text/html"
	case ".css":
		return "text/css"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}

// StoreExport writes every file of one export into a fresh export folder
// and returns the stored paths, sorted.
func StoreExport(ctx context.Context, client StorageClient, timestamp time.Time, files map[string][]byte) ([]string, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("export has no files")
	}

	folder := ExportFolderPath(timestamp)
	if err := client.CreateDir(ctx, folder); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	stored := make([]string, 0, len(names))
	for _, name := range names {
		p := path.Join(folder, name)
		if err := client.StoreFile(ctx, p, files[name]); err != nil {
			return stored, fmt.Errorf("failed to store %s: %w", name, err)
		}
		stored = append(stored, p)
	}
	return stored, nil
}
