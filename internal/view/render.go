package view

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/mansoorceksport/tenantpanel/internal/domain"
)

//go:embed templates static
var files embed.FS

// Static returns the bundled static assets (stylesheet, logos, icons, widget script)
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Page names
const (
	PageLogin     = "login"
	PageSignUp    = "signup"
	PageDashboard = "dashboard"
	PageSettings  = "settings"
)

// ExternalLink is one of the cards in the page footer
type ExternalLink struct {
	Href    string
	Logo    string
	Alt     string
	Label   string
	Caption string
}

// LayoutData configures the page shell
type LayoutData struct {
	Title       string
	Description string
	Heading     string
	Links       []ExternalLink
}

// DefaultLayout is the shell shared by every page
func DefaultLayout(title string) LayoutData {
	return LayoutData{
		Title:       title,
		Description: "Example app with tenant-aware authentication",
		Heading:     "Yet Another Todo Application",
		Links: []ExternalLink{
			{
				Href:    "https://www.thenile.dev/docs/user-authentication/third-party/nextauth",
				Logo:    "/static/nextauth.svg",
				Alt:     "NextAuth Logo",
				Label:   "NextAuth",
				Caption: "Getting started guide",
			},
			{
				Href:    "https://thenile.dev",
				Logo:    "/static/nile_logo.svg",
				Alt:     "Nile Logo",
				Caption: "Sign up to Nile",
			},
			{
				Href:    "https://www.thenile.dev/templates",
				Logo:    "/static/nile_logo.svg",
				Alt:     "Nile Logo",
				Caption: "Try additional templates",
			},
		},
	}
}

// LoginData is the body of the login and sign-up pages
type LoginData struct {
	AppURL     string
	SubmitPath string
	SignUpPath string
	LoginPath  string
	Error      string
}

// SettingsData is the body of the settings page
type SettingsData struct {
	SignedIn      bool
	Email         string
	TenantName    string
	DashboardPath string
	LogoutPath    string
	LoginPath     string
}

// AuthPanelData is the read-only view of the session cookie
type AuthPanelData struct {
	TenantName   string
	Auth         domain.AuthCookieData
	Claims       domain.TokenData
	Raw          string
	Unknown      string
	SettingsPath string
	HomePath     string
}

// NewAuthPanelData builds the panel view. Absent claims render as empty values.
func NewAuthPanelData(tenantName string, auth domain.AuthCookieData) (AuthPanelData, error) {
	raw, err := json.MarshalIndent(auth, "", "  ")
	if err != nil {
		return AuthPanelData{}, fmt.Errorf("failed to encode cookie data: %w", err)
	}

	var claims domain.TokenData
	if auth.TokenData != nil {
		claims = *auth.TokenData
	}

	return AuthPanelData{
		TenantName:   tenantName,
		Auth:         auth,
		Claims:       claims,
		Raw:          string(raw),
		Unknown:      domain.UnknownTenant,
		SettingsPath: domain.RouteSettings,
		HomePath:     domain.RouteHome,
	}, nil
}

type page struct {
	Layout LayoutData
	Body   interface{}
}

// Renderer executes the embedded templates
type Renderer struct {
	pages map[string]*template.Template
	card  *template.Template
}

var funcs = template.FuncMap{
	"join": func(values []string) string {
		return strings.Join(values, ", ")
	},
	"numeric": func(v int64) string {
		if v == 0 {
			return ""
		}
		return strconv.FormatInt(v, 10)
	},
}

// NewRenderer parses every page template
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}

	for _, name := range []string{PageLogin, PageSignUp, PageDashboard, PageSettings} {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(files,
			"templates/layout.html",
			"templates/authpanel.html",
			"templates/"+name+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		r.pages[name] = tmpl
	}

	card, err := template.New("card").Funcs(funcs).ParseFS(files, "templates/card.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse card template: %w", err)
	}
	r.card = card

	return r, nil
}

// Page renders a full page inside the layout
func (r *Renderer) Page(w io.Writer, name string, layout LayoutData, body interface{}) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	if err := tmpl.ExecuteTemplate(w, "layout", page{Layout: layout, Body: body}); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}

// DocCard renders a documentation card. A nil card writes nothing.
func (r *Renderer) DocCard(w io.Writer, card *domain.DocCard) error {
	if card == nil {
		return nil
	}
	if err := r.card.ExecuteTemplate(w, "card", card); err != nil {
		return fmt.Errorf("failed to render doc card: %w", err)
	}
	return nil
}
