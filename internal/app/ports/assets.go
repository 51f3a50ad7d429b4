package ports

import "context"

// AssetProvider serves the static files of the browser overlay viewer.
type AssetProvider interface {
	File(ctx context.Context, path string) ([]byte, error)
}
