package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"path"
	"strings"

	"github.com/mansoorceksport/tenantpanel/internal/domain"
)

// EmbeddedAssetRepository implements domain.AssetRepository over a bundled filesystem
type EmbeddedAssetRepository struct {
	files fs.FS
}

// NewEmbeddedAssetRepository serves assets from files
func NewEmbeddedAssetRepository(files fs.FS) *EmbeddedAssetRepository {
	return &EmbeddedAssetRepository{files: files}
}

// Get reads the named asset. Names without an extension are matched against .svg then .png.
func (r *EmbeddedAssetRepository) Get(ctx context.Context, name string) (*domain.Asset, error) {
	clean := strings.TrimPrefix(path.Clean("/"+name), "/")
	if clean == "" {
		return nil, domain.ErrNotFound
	}
	candidates := []string{clean}
	if path.Ext(clean) == "" {
		candidates = append(candidates, clean+".svg", clean+".png")
	}

	for _, candidate := range candidates {
		body, err := fs.ReadFile(r.files, candidate)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read asset %s: %w", candidate, err)
		}
		contentType := mime.TypeByExtension(path.Ext(candidate))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		return &domain.Asset{Name: name, ContentType: contentType, Body: body}, nil
	}
	return nil, domain.ErrNotFound
}
