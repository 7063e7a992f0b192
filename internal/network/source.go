package network

import (
	"context"
	"fmt"
	"os"

	"github.com/atharv3903/metronav/internal/db"
)

// Source yields the raw network description.
type Source interface {
	Text(ctx context.Context) (string, error)
	String() string
}

// FileSource reads the description from a file on disk.
type FileSource struct {
	Path string
}

func (f FileSource) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("network: read %s: %w", f.Path, err)
	}
	return string(b), nil
}

func (f FileSource) String() string { return "file:" + f.Path }

// StoreSource reads a named description from the database.
type StoreSource struct {
	Store db.Store
	Name  string
}

func (s StoreSource) Text(ctx context.Context) (string, error) {
	return s.Store.Network(ctx, s.Name)
}

func (s StoreSource) String() string { return "db:" + s.Name }
