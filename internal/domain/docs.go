package domain

// NavigationRoot is a top-level section of the documentation site
type NavigationRoot string

const (
	RootGettingStarted NavigationRoot = "getting-started"
	RootPostgres       NavigationRoot = "postgres"
	RootAuth           NavigationRoot = "auth"
	RootServerless     NavigationRoot = "serverless"
)

// Valid reports whether r is a known navigation root
func (r NavigationRoot) Valid() bool {
	switch r {
	case RootGettingStarted, RootPostgres, RootAuth, RootServerless:
		return true
	}
	return false
}

// DocMetadata is the front matter exported by a documentation page
type DocMetadata struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
}

// DocRegistry resolves documentation metadata by root and normalized file path
type DocRegistry interface {
	Lookup(root NavigationRoot, path string) (*DocMetadata, bool)
}

// DocCard is the view model of a documentation link card
type DocCard struct {
	Href        string
	Title       string
	Description string
	Icon        string
	IconSrc     string
}
