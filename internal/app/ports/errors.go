package ports

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrNoMap      = errors.New("no map loaded")
	ErrNotVisible = errors.New("minimap not visible")
)
