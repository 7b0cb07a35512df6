package formatter

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/desertthunder/moviehub/internal/models"
)

//go:embed templates/index.html
var templateFS embed.FS

var siteTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// SitePage is the data rendered into the catalog page template.
type SitePage struct {
	Title           string
	WelcomeTitle    string
	WelcomeSubtitle string
	Movies          []SiteMovie
}

// SiteMovie is a single poster card on the catalog page.
type SiteMovie struct {
	Title     string
	Year      int
	Rating    string
	PosterURL string
	IMDbURL   template.URL
}

// NewSitePage builds the page data for a user's catalog.
func NewSitePage(appTitle string, s models.Session, c models.Catalog) SitePage {
	page := SitePage{
		Title:           appTitle,
		WelcomeTitle:    fmt.Sprintf("Welcome back, %s.", s.UserName),
		WelcomeSubtitle: "Your movie collection is empty.",
		Movies:          make([]SiteMovie, 0, len(c)),
	}
	if len(c) > 0 {
		page.WelcomeSubtitle = "Browse your movie collection:"
	}

	for _, m := range c {
		page.Movies = append(page.Movies, SiteMovie{
			Title:     m.Title,
			Year:      m.Year,
			Rating:    FormatRating(m.Rating),
			PosterURL: m.Poster(),
			IMDbURL:   template.URL(m.IMDbURL()),
		})
	}

	return page
}

// RenderSite renders the catalog page as HTML.
func RenderSite(appTitle string, s models.Session, c models.Catalog) ([]byte, error) {
	var buf bytes.Buffer
	if err := siteTemplate.Execute(&buf, NewSitePage(appTitle, s, c)); err != nil {
		return nil, fmt.Errorf("failed to render site: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteSite renders the catalog page into dir as {User_Name}.html and returns the written path.
func WriteSite(dir, appTitle string, s models.Session, c models.Catalog) (string, error) {
	return WriteSiteFile(filepath.Join(dir, s.SafeName()+".html"), appTitle, s, c)
}

// WriteSiteFile renders the catalog page to path, creating its directory if needed.
func WriteSiteFile(path, appTitle string, s models.Session, c models.Catalog) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	html, err := RenderSite(appTitle, s, c)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, html, 0644); err != nil {
		return "", fmt.Errorf("failed to write site: %w", err)
	}

	return path, nil
}
