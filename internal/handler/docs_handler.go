package handler

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/tenantpanel/internal/domain"
	"github.com/mansoorceksport/tenantpanel/internal/service"
	"github.com/mansoorceksport/tenantpanel/internal/view"
)

// DocsHandler serves documentation card fragments
type DocsHandler struct {
	catalog  *service.DocCatalog
	renderer *view.Renderer
}

// NewDocsHandler creates a new docs handler
func NewDocsHandler(catalog *service.DocCatalog, renderer *view.Renderer) *DocsHandler {
	return &DocsHandler{
		catalog:  catalog,
		renderer: renderer,
	}
}

// Card handles GET /docs/cards?root=&file=&icon=.
// Unregistered documents produce an empty 200 body.
func (h *DocsHandler) Card(c *fiber.Ctx) error {
	card := h.catalog.Card(c.Query("file"), domain.NavigationRoot(c.Query("root")), c.Query("icon"))
	return sendHTML(c, func(w io.Writer) error {
		return h.renderer.DocCard(w, card)
	})
}
