package domain

import (
	"context"
)

// Asset is a static file served to the browser (card icons, logos)
type Asset struct {
	Name        string
	ContentType string
	Body        []byte
}

// AssetRepository defines the interface for static asset storage
type AssetRepository interface {
	// Get returns the named asset or ErrNotFound
	Get(ctx context.Context, name string) (*Asset, error)
}
