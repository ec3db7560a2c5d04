// Package site writes the dashboard's output artifacts: the rendered
// HTML page, the build.json proof file and the static asset copy.
package site

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"hardcover-dash/dashboard"
)

// pageTemplate is the template file the renderer loads from the
// templates directory.
const pageTemplate = "reading.html"

// Renderer renders the view model into the dashboard page.
type Renderer struct {
	tpl *template.Template
}

// NewRenderer loads the page template from templatesDir.
func NewRenderer(templatesDir string) (*Renderer, error) {
	tpl, err := template.New(pageTemplate).
		Funcs(templateFuncs()).
		ParseFiles(filepath.Join(templatesDir, pageTemplate))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	return &Renderer{tpl: tpl}, nil
}

// RenderPage writes <outDir>/reading/index.html and returns its path.
func (r *Renderer) RenderPage(outDir string, vm *dashboard.ViewModel) (string, error) {
	dir := filepath.Join(outDir, "reading")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(dir, "index.html")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create page file: %w", err)
	}

	if err := r.tpl.Execute(f, vm); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return path, f.Close()
}

// templateFuncs are the helpers the page template needs beyond plain
// field access: bar widths for the per-year chart, star strings and
// formatting for the nullable stat values.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"barWidth": func(count, max int) int {
			if max <= 0 {
				return 0
			}
			return count * 100 / max
		},
		"stars": func(n *int) string {
			if n == nil {
				return ""
			}
			return strings.Repeat("★", *n) + strings.Repeat("☆", 5-*n)
		},
		"days": func(f *float64) string {
			if f == nil {
				return ""
			}
			return fmt.Sprintf("%.1f", *f)
		},
		"percent": func(f *float64) string {
			if f == nil {
				return ""
			}
			return fmt.Sprintf("%.0f", *f)
		},
	}
}
