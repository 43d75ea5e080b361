package pages

import "foodgram-pages/internal/domain"

// Catalog is the ordered set of pages the site serves.
type Catalog struct {
	pages  []Page
	bySlug map[string]int
}

// NewCatalog builds the catalog with the given outbound links.
func NewCatalog(links Links) *Catalog {
	c := &Catalog{bySlug: make(map[string]int)}
	for _, p := range []Page{About(links), Technologies()} {
		c.bySlug[p.Slug] = len(c.pages)
		c.pages = append(c.pages, p)
	}
	return c
}

// All returns the pages in display order.
func (c *Catalog) All() []Page {
	out := make([]Page, len(c.pages))
	copy(out, c.pages)
	return out
}

// Lookup finds a page by slug.
func (c *Catalog) Lookup(slug string) (Page, error) {
	i, ok := c.bySlug[slug]
	if !ok {
		return Page{}, domain.ErrPageNotFound
	}
	return c.pages[i], nil
}
