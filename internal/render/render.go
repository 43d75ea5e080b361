package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"foodgram-pages/internal/pages"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// StylesheetURL is where the page stylesheet is served from.
const StylesheetURL = "/static/pages.css"

// Site carries the values shared by every page head.
type Site struct {
	Name    string
	Lang    string
	BaseURL string
}

type documentData struct {
	Site          Site
	Meta          pages.Meta
	Heading       string
	CanonicalURL  string
	StylesheetURL string
	Page          pages.Page
	Message       string
}

// Renderer turns pages into complete HTML documents.
type Renderer struct {
	site    Site
	page    *template.Template
	errPage *template.Template
}

// New parses the embedded templates.
func New(site Site) (*Renderer, error) {
	page, err := template.ParseFS(templateFS, "templates/layout.html", "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse page templates: %w", err)
	}
	errPage, err := template.ParseFS(templateFS, "templates/layout.html", "templates/error.html")
	if err != nil {
		return nil, fmt.Errorf("parse error templates: %w", err)
	}
	return &Renderer{site: site, page: page, errPage: errPage}, nil
}

// Render produces the document for p.
func (r *Renderer) Render(p pages.Page) ([]byte, error) {
	return r.execute(r.page, documentData{
		Site:          r.site,
		Meta:          p.Meta,
		Heading:       p.Heading,
		CanonicalURL:  r.canonical(p.Route),
		StylesheetURL: StylesheetURL,
		Page:          p,
	})
}

// RenderError produces a layout-wrapped page for an HTTP error.
func (r *Renderer) RenderError(status int, message string) ([]byte, error) {
	title := "Ошибка"
	if status == http.StatusNotFound {
		title = "Страница не найдена"
	}
	if message == "" {
		message = StatusText(status)
	}
	return r.execute(r.errPage, documentData{
		Site: r.site,
		Meta: pages.Meta{
			Title:       title,
			Description: r.site.Name + " - " + title,
			OGTitle:     title,
		},
		Heading:       title,
		StylesheetURL: StylesheetURL,
		Message:       message,
	})
}

var statusTexts = map[int]string{
	http.StatusBadRequest:            "Некорректный запрос",
	http.StatusUnauthorized:          "Требуется авторизация",
	http.StatusForbidden:             "Доступ запрещён",
	http.StatusNotFound:              "Такой страницы нет",
	http.StatusMethodNotAllowed:      "Метод не поддерживается",
	http.StatusRequestTimeout:        "Время ожидания истекло",
	http.StatusRequestEntityTooLarge: "Слишком большой запрос",
	http.StatusTooManyRequests:       "Слишком много запросов, попробуйте позже",
	http.StatusInternalServerError:   "Внутренняя ошибка сервера",
	http.StatusServiceUnavailable:    "Сервис временно недоступен",
}

// StatusText is the user-facing Russian text for an HTTP status.
func StatusText(status int) string {
	if t, ok := statusTexts[status]; ok {
		return t
	}
	return "Что-то пошло не так"
}

// Prerender renders every page once; the result is keyed by slug.
func (r *Renderer) Prerender(all []pages.Page) (map[string][]byte, error) {
	out := make(map[string][]byte, len(all))
	for _, p := range all {
		html, err := r.Render(p)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", p.Slug, err)
		}
		out[p.Slug] = html
	}
	return out, nil
}

func (r *Renderer) execute(t *template.Template, data documentData) ([]byte, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "document", data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) canonical(route string) string {
	if r.site.BaseURL == "" {
		return ""
	}
	return strings.TrimRight(r.site.BaseURL, "/") + route
}

// InlineStylesheet replaces the stylesheet link with an inline <style> block,
// for consumers that cannot fetch /static (headless print, offline copies).
func InlineStylesheet(html []byte) []byte {
	css, err := fs.ReadFile(Static(), "pages.css")
	if err != nil {
		return html
	}
	link := []byte(`<link rel="stylesheet" href="` + StylesheetURL + `">`)
	style := append(append([]byte("<style>\n"), css...), []byte("</style>")...)
	return bytes.Replace(html, link, style, 1)
}

// Static exposes the embedded stylesheet directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Export writes the pages as <dir>/<slug>/index.html together with the static assets.
func Export(dir string, all []pages.Page, rendered map[string][]byte) error {
	for _, p := range all {
		html, ok := rendered[p.Slug]
		if !ok {
			return fmt.Errorf("page %s was not rendered", p.Slug)
		}
		pageDir := filepath.Join(dir, p.Slug)
		if err := os.MkdirAll(pageDir, 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(pageDir, "index.html"), html, 0o644); err != nil {
			return err
		}
	}

	staticDir := filepath.Join(dir, "static")
	if err := os.MkdirAll(staticDir, 0o755); err != nil {
		return err
	}
	return fs.WalkDir(Static(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(Static(), path)
		if err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(staticDir, path), data, 0o644)
	})
}
