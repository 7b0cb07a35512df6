// package formatter provides functions to export catalog data to various formats (CSV, Markdown, plain text, JSON)
// and to render a user's catalog as a static HTML page
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/moviehub/internal/models"
	"github.com/desertthunder/moviehub/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
	FormatJSON     Format = "json"
)

// ParseFormat converts a user-supplied format name to a [Format].
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// ExportToCSV converts a catalog to CSV format with columns: Title, Year, Rating, Poster, IMDb ID
func ExportToCSV(c models.Catalog) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Title", "Year", "Rating", "Poster", "IMDb ID"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, m := range c {
		record := []string{
			m.Title,
			strconv.Itoa(m.Year),
			FormatRating(m.Rating),
			m.Poster(),
			deref(m.IMDbID),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a catalog to Markdown with one linked entry per movie
func ExportToMarkdown(s models.Session, c models.Catalog) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s's Movies\n\n", s.UserName))
	buf.WriteString(fmt.Sprintf("**Movies**: %d\n\n", len(c)))

	for i, m := range c {
		title := m.Title
		if url := m.IMDbURL(); url != "#" {
			title = fmt.Sprintf("[%s](%s)", m.Title, url)
		}
		buf.WriteString(fmt.Sprintf("%d. %s (%d) ★ %s\n", i+1, title, m.Year, FormatRating(m.Rating)))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a catalog to plain text format
func ExportToText(s models.Session, c models.Catalog) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s's Movies (%d total)\n\n", s.UserName, len(c)))
	for _, m := range c {
		buf.WriteString(FormatLine(m) + "\n")
	}

	return buf.Bytes(), nil
}

// ExportToJSON converts a catalog to indented JSON
func ExportToJSON(c models.Catalog) ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Export renders a catalog in the given [Format].
func Export(f Format, s models.Session, c models.Catalog) ([]byte, error) {
	switch f {
	case FormatCSV:
		return ExportToCSV(c)
	case FormatMarkdown:
		return ExportToMarkdown(s, c)
	case FormatText:
		return ExportToText(s, c)
	case FormatJSON:
		return ExportToJSON(c)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
	}
}

// WriteExport renders a catalog and writes it to path.
//
// Defaults to {user}_movies.{format} as the filename.
func WriteExport(f Format, s models.Session, c models.Catalog, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%s_movies.%s", s.SafeName(), f)
	}

	data, err := Export(f, s, c)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", f, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

// FormatRating renders a rating with one decimal place
func FormatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', 1, 64)
}

// FormatLine renders a movie as "Title (Year): Rating"
func FormatLine(m models.Movie) string {
	return fmt.Sprintf("%s (%d): %s", m.Title, m.Year, FormatRating(m.Rating))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
