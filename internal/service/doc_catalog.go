package service

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/mansoorceksport/tenantpanel/internal/domain"
	"github.com/mansoorceksport/tenantpanel/internal/telemetry"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed docs/manifest.yaml
var defaultManifest []byte

const docSuffix = ".mdx"

// docManifest is the on-disk shape of the documentation metadata registry
type docManifest struct {
	Documents []struct {
		Root               domain.NavigationRoot `yaml:"root"`
		Path               string                `yaml:"path"`
		domain.DocMetadata `yaml:",inline"`
	} `yaml:"documents"`
}

// StaticDocRegistry implements domain.DocRegistry with a map built once at startup
type StaticDocRegistry struct {
	entries map[string]domain.DocMetadata
}

// LoadDocRegistry parses a YAML manifest into a registry
func LoadDocRegistry(data []byte) (*StaticDocRegistry, error) {
	var manifest docManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse doc manifest: %w", err)
	}

	reg := &StaticDocRegistry{entries: make(map[string]domain.DocMetadata, len(manifest.Documents))}
	for i, doc := range manifest.Documents {
		if !doc.Root.Valid() {
			return nil, fmt.Errorf("doc manifest entry %d: unknown root %q", i, doc.Root)
		}
		path := normalizeDocPath(doc.Path)
		if path == "" {
			return nil, fmt.Errorf("doc manifest entry %d: empty path", i)
		}
		key := docKey(doc.Root, path)
		if _, dup := reg.entries[key]; dup {
			return nil, fmt.Errorf("doc manifest entry %d: duplicate %s", i, key)
		}
		reg.entries[key] = doc.DocMetadata
	}
	return reg, nil
}

// DefaultDocRegistry returns the registry built from the bundled manifest
func DefaultDocRegistry() (*StaticDocRegistry, error) {
	return LoadDocRegistry(defaultManifest)
}

// Lookup returns the metadata registered for root and path
func (r *StaticDocRegistry) Lookup(root domain.NavigationRoot, path string) (*domain.DocMetadata, bool) {
	meta, ok := r.entries[docKey(root, normalizeDocPath(path))]
	if !ok {
		return nil, false
	}
	return &meta, true
}

// Len returns the number of registered documents
func (r *StaticDocRegistry) Len() int {
	return len(r.entries)
}

// DocCatalog builds documentation link cards
type DocCatalog struct {
	registry domain.DocRegistry
	metrics  *telemetry.Metrics
	logger   *zap.Logger
}

// NewDocCatalog creates a new catalog
func NewDocCatalog(registry domain.DocRegistry, metrics *telemetry.Metrics, logger *zap.Logger) *DocCatalog {
	return &DocCatalog{
		registry: registry,
		metrics:  metrics,
		logger:   logger,
	}
}

// Card returns the card for file under root, or nil when no metadata is registered
func (c *DocCatalog) Card(file string, root domain.NavigationRoot, icon string) *domain.DocCard {
	meta, ok := c.registry.Lookup(root, file)
	if !ok || meta == nil {
		c.recordLookup("missing")
		c.logger.Warn("no metadata for documentation card",
			zap.String("root", string(root)),
			zap.String("file", file))
		return nil
	}
	c.recordLookup("found")

	card := &domain.DocCard{
		Href:        fmt.Sprintf("/docs/%s/%s", root, docHref(file)),
		Title:       meta.Title,
		Description: meta.Description,
	}
	if icon != "" {
		card.Icon = icon
		card.IconSrc = "/icons/" + icon
	}
	return card
}

func (c *DocCatalog) recordLookup(result string) {
	if c.metrics != nil {
		c.metrics.DocCardLookupsTotal.WithLabelValues(result).Inc()
	}
}

// normalizeDocPath strips relative prefixes so "./a/b.mdx" and "a/b.mdx" match
func normalizeDocPath(p string) string {
	p = strings.TrimSpace(p)
	for strings.HasPrefix(p, "./") || strings.HasPrefix(p, "/") {
		p = strings.TrimPrefix(strings.TrimPrefix(p, "./"), "/")
	}
	return p
}

// docHref drops the page suffix from every path segment
func docHref(file string) string {
	parts := strings.Split(normalizeDocPath(file), "/")
	for i, part := range parts {
		parts[i] = strings.TrimSuffix(part, docSuffix)
	}
	return strings.Join(parts, "/")
}

func docKey(root domain.NavigationRoot, path string) string {
	return string(root) + "/" + path
}
