package standingsservice

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads the standings from a path on disk.
type FileSource struct {
	Path string
}

// NewFileSource creates a FileSource for path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Name implements StandingsSource.
func (f *FileSource) Name() string {
	return f.Path
}

// Read implements StandingsSource.
func (f *FileSource) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read standings file: %w", err)
	}
	return data, nil
}
