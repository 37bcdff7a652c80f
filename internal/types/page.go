package types

import (
	"net/url"
	"strings"
	"time"
)

// Link is a hyperlink discovered on a crawled page.
type Link struct {
	// URL is the normalized absolute target URL.
	URL string `json:"url"`

	// Text is the anchor text, whitespace-trimmed.
	Text string `json:"text"`

	// Title is the anchor's title attribute, if any.
	Title string `json:"title,omitempty"`

	// Internal reports whether the target is on the crawl's base domain.
	Internal bool `json:"internal"`
}

// Asset is a page resource (image, stylesheet, script, media file).
// Size and Checksum stay zero until the asset bytes have been fetched.
type Asset struct {
	URL          string    `json:"url"`
	LocalPath    string    `json:"local_path,omitempty"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	Checksum     string    `json:"checksum,omitempty"`
	DownloadedAt time.Time `json:"downloaded_at,omitzero"`
}

// Component is a reusable UI fragment identified on a page.
type Component struct {
	Selector      string            `json:"selector"`
	Tag           string            `json:"tag"`
	Category      string            `json:"category"`
	Classes       []string          `json:"classes,omitempty"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	ContentSample string            `json:"content_sample,omitempty"`
	Frequency     int               `json:"frequency"`
}

// PageMetadata holds metadata extracted from a page's head section.
type PageMetadata struct {
	Title        string            `json:"title,omitempty"`
	Description  string            `json:"description,omitempty"`
	Keywords     []string          `json:"keywords,omitempty"`
	Author       string            `json:"author,omitempty"`
	Language     string            `json:"language,omitempty"`
	CanonicalURL string            `json:"canonical_url,omitempty"`
	OGTags       map[string]string `json:"og_tags,omitempty"`
	TwitterTags  map[string]string `json:"twitter_tags,omitempty"`
	PageType     string            `json:"page_type,omitempty"`
}

// LayoutStructure records which structural landmarks a page contains.
type LayoutStructure struct {
	HasHeader  bool `json:"has_header"`
	HasNav     bool `json:"has_nav"`
	HasMain    bool `json:"has_main"`
	HasSidebar bool `json:"has_sidebar"`
	HasFooter  bool `json:"has_footer"`
	HasGrid    bool `json:"has_grid"`
	HasForm    bool `json:"has_form"`
}

// Signature encodes the present landmarks as a sorted string of one-letter
// codes (A=aside, F=footer, G=grid, H=header, M=main, N=nav, R=form), so two
// structures compare equal independent of detection order.
func (ls LayoutStructure) Signature() string {
	var letters []string
	if ls.HasSidebar {
		letters = append(letters, "A")
	}
	if ls.HasFooter {
		letters = append(letters, "F")
	}
	if ls.HasGrid {
		letters = append(letters, "G")
	}
	if ls.HasHeader {
		letters = append(letters, "H")
	}
	if ls.HasMain {
		letters = append(letters, "M")
	}
	if ls.HasNav {
		letters = append(letters, "N")
	}
	if ls.HasForm {
		letters = append(letters, "R")
	}
	return strings.Join(letters, "")
}

// LayoutInfo summarizes the layout system detected on a page.
type LayoutInfo struct {
	CSSFramework      string          `json:"css_framework,omitempty"`
	GridClasses       []string        `json:"grid_classes,omitempty"`
	ResponsiveClasses []string        `json:"responsive_classes,omitempty"`
	Structure         LayoutStructure `json:"structure"`
	Signature         string          `json:"signature"`
}

// Page is a single crawled HTML page. A Page is owned by the SiteMap that
// holds it and is only mutated during its own crawl step.
type Page struct {
	URL         string               `json:"url"`
	LocalPath   string               `json:"local_path"`
	Depth       int                  `json:"depth"`
	Title       string               `json:"title"`
	HTML        []byte               `json:"-"`
	Metadata    PageMetadata         `json:"metadata"`
	Links       []Link               `json:"links,omitempty"`
	Assets      []Asset              `json:"assets,omitempty"`
	Components  []Component          `json:"components,omitempty"`
	Layout      *LayoutInfo          `json:"layout,omitempty"`
	Signature   *StructuralSignature `json:"-"`
	CrawledAt   time.Time            `json:"crawled_at"`
	StatusCode  int                  `json:"status_code"`
	ContentType string               `json:"content_type"`
	Size        int64                `json:"size"`
}

// Domain returns the host of the page URL.
func (p *Page) Domain() string {
	u, err := url.Parse(p.URL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// Path returns the path of the page URL.
func (p *Page) Path() string {
	u, err := url.Parse(p.URL)
	if err != nil {
		return ""
	}
	return u.Path
}

// IsHomepage reports whether the page is the site root.
func (p *Page) IsHomepage() bool {
	switch p.Path() {
	case "", "/", "/index.html":
		return true
	}
	return false
}

// AddComponent appends a component, folding duplicates by selector into the
// existing component's frequency counter.
func (p *Page) AddComponent(c Component) {
	for i := range p.Components {
		if p.Components[i].Selector == c.Selector {
			p.Components[i].Frequency++
			return
		}
	}
	if c.Frequency == 0 {
		c.Frequency = 1
	}
	p.Components = append(p.Components, c)
}
