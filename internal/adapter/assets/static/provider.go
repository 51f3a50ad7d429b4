// Package staticassets serves the overlay viewer, either from a directory on
// disk or from the copy built into the binary.
package staticassets

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"minimap/internal/app/ports"
)

//go:embed viewer
var viewerFS embed.FS

var ErrInvalidAssetPath = errors.New("invalid asset path")

// Provider reads from Root, or from the embedded viewer when Root is empty.
type Provider struct {
	Root string
}

func (p Provider) File(_ context.Context, path string) ([]byte, error) {
	path = strings.TrimSpace(path)
	if p.Root == "" {
		return embedded(path)
	}
	safePath, err := secureJoin(p.Root, path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(safePath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("asset %s: %w", path, ports.ErrNotFound)
	}
	return b, err
}

func embedded(path string) ([]byte, error) {
	if path == "" || !fs.ValidPath(path) {
		return nil, ErrInvalidAssetPath
	}
	b, err := fs.ReadFile(viewerFS, "viewer/"+path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("asset %s: %w", path, ports.ErrNotFound)
	}
	return b, err
}

func secureJoin(root, rel string) (string, error) {
	if rel == "" {
		return "", ErrInvalidAssetPath
	}
	if filepath.IsAbs(rel) {
		return "", ErrInvalidAssetPath
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	target := filepath.Clean(filepath.Join(rootAbs, rel))
	prefix := rootAbs + string(filepath.Separator)
	if target != rootAbs && !strings.HasPrefix(target, prefix) {
		return "", ErrInvalidAssetPath
	}
	return target, nil
}
