package handlers

import (
	"github.com/gofiber/fiber/v2"

	"foodgram-pages/internal/pages"
)

// Pages serves the pre-rendered documents of a catalog.
type Pages struct {
	catalog  *pages.Catalog
	rendered map[string][]byte
}

// PageSummary is the JSON view of a page's route and metadata.
type PageSummary struct {
	Slug  string `json:"slug"`
	Route string `json:"route"`
	pages.Meta
}

func NewPages(catalog *pages.Catalog, rendered map[string][]byte) *Pages {
	return &Pages{catalog: catalog, rendered: rendered}
}

// HTML returns the rendered document for slug.
func (h *Pages) HTML(slug string) ([]byte, bool) {
	body, ok := h.rendered[slug]
	return body, ok
}

// Page serves one page.
func (h *Pages) Page(slug string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, ok := h.HTML(slug)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "Not Found")
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		c.Set(fiber.HeaderCacheControl, "public, max-age=300")
		return c.Send(body)
	}
}

// List returns every page with its metadata.
func (h *Pages) List(c *fiber.Ctx) error {
	all := h.catalog.All()
	out := make([]PageSummary, 0, len(all))
	for _, p := range all {
		out = append(out, PageSummary{Slug: p.Slug, Route: p.Route, Meta: p.Meta})
	}
	return c.JSON(out)
}
