package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/tenantpanel/internal/domain"
	"go.uber.org/zap"
)

// AssetHandler serves card icons from the first repository that has them
type AssetHandler struct {
	repos  []domain.AssetRepository
	logger *zap.Logger
}

// NewAssetHandler creates a new asset handler. Repositories are tried in order.
func NewAssetHandler(logger *zap.Logger, repos ...domain.AssetRepository) *AssetHandler {
	return &AssetHandler{
		repos:  repos,
		logger: logger,
	}
}

// Icon handles GET /icons/:name
func (h *AssetHandler) Icon(c *fiber.Ctx) error {
	name := "icons/" + c.Params("name")

	for _, repo := range h.repos {
		asset, err := repo.Get(c.UserContext(), name)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				h.logger.Warn("asset repository failed", zap.String("asset", name), zap.Error(err))
			}
			continue
		}
		contentType := asset.ContentType
		if contentType == "" {
			contentType = fiber.MIMEOctetStream
		}
		c.Set(fiber.HeaderContentType, contentType)
		c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
		return c.Send(asset.Body)
	}

	return fiber.NewError(fiber.StatusNotFound, "asset not found")
}
