// Package pages describes the informational pages of the site as data.
//
// A Page is a pure value: rendering it twice gives the same markup, and
// nothing in a request can influence its content.
package pages

// Meta is the document-head metadata of a page.
type Meta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	OGTitle     string `json:"og_title"`
}

// Span is an inline run of text. A non-empty Href turns it into a link.
type Span struct {
	Text     string
	Href     string
	External bool
	Strong   bool
}

// BlockKind selects how a Block is rendered.
type BlockKind int

const (
	Paragraph BlockKind = iota
	List
)

// Block is either a paragraph of spans or a bullet list of span runs.
type Block struct {
	Kind  BlockKind
	Spans []Span
	Items [][]Span
}

// SectionKind places a section within the page layout.
type SectionKind int

const (
	Plain SectionKind = iota
	Disclaimer
	Aside
)

type Section struct {
	Heading string
	Kind    SectionKind
	Blocks  []Block
}

func (s Section) IsDisclaimer() bool { return s.Kind == Disclaimer }

func (s Section) IsAside() bool { return s.Kind == Aside }

func (b Block) IsList() bool { return b.Kind == List }

// Page is one top-level route.
type Page struct {
	Slug     string
	Route    string
	Meta     Meta
	Heading  string
	Sections []Section
}

// Links are the outbound links shown on the pages.
type Links struct {
	RepositoryURL string
	AuthorName    string
	AuthorURL     string
	SourceSiteURL string
}

// Main returns the sections rendered in the main column.
func (p Page) Main() []Section {
	var out []Section
	for _, s := range p.Sections {
		if !s.IsAside() {
			out = append(out, s)
		}
	}
	return out
}

// Asides returns the sections rendered in the side column.
func (p Page) Asides() []Section {
	var out []Section
	for _, s := range p.Sections {
		if s.IsAside() {
			out = append(out, s)
		}
	}
	return out
}

// Links returns every hyperlink on the page in document order.
func (p Page) Links() []Span {
	var out []Span
	collect := func(spans []Span) {
		for _, sp := range spans {
			if sp.Href != "" {
				out = append(out, sp)
			}
		}
	}
	for _, s := range p.Sections {
		for _, b := range s.Blocks {
			collect(b.Spans)
			for _, item := range b.Items {
				collect(item)
			}
		}
	}
	return out
}

func text(s string) Span { return Span{Text: s} }

func para(spans ...Span) Block { return Block{Kind: Paragraph, Spans: spans} }

func item(name, desc string) []Span {
	return []Span{{Text: name + ":", Strong: true}, text(" " + desc)}
}
