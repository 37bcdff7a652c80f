// Package analysis turns a crawled page set into structural signatures,
// pairwise similarity, clusters, and migration recommendations.
package analysis

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"

	"github.com/h0ck3ystyx/recrafter/internal/types"
)

// digitPlaceholder replaces digit runs in class and id tokens so that
// numbered variants (item-1, item-2, page3) count as the same token.
const digitPlaceholder = '#'

// ExtractSignature computes the structural signature of a page from its raw
// HTML. A page that fails to parse yields an empty signature, never an error:
// similarity against it simply scores low.
func ExtractSignature(page *types.Page) *types.StructuralSignature {
	sig := &types.StructuralSignature{
		TagFrequency:   make(map[string]int),
		ClassFrequency: make(map[string]int),
		IDFrequency:    make(map[string]int),
		ComponentCount: len(page.Components),
	}
	if page.Layout != nil {
		sig.LayoutSignature = page.Layout.Signature
	}

	root, err := html.Parse(bytes.NewReader(page.HTML))
	if err != nil {
		return sig
	}

	var layout types.LayoutStructure
	var textLen int
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			textLen += len(strings.TrimSpace(n.Data))
		case html.ElementNode:
			sig.TagFrequency[n.Data]++
			countElement(sig, &layout, n)
			for _, attr := range n.Attr {
				switch attr.Key {
				case "class":
					for _, token := range strings.Fields(attr.Val) {
						normalized := normalizeToken(token)
						sig.ClassFrequency[normalized]++
						if isGridToken(normalized) {
							layout.HasGrid = true
						}
					}
				case "id":
					sig.IDFrequency[normalizeToken(attr.Val)]++
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	sig.TextLength = textLen
	if sig.LayoutSignature == "" {
		sig.LayoutSignature = layout.Signature()
	}
	return sig
}

// countElement updates the content counters and landmark flags for one
// element node.
func countElement(sig *types.StructuralSignature, layout *types.LayoutStructure, n *html.Node) {
	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		sig.HeadingCount++
	case "p":
		sig.ParagraphCount++
	case "a":
		sig.LinkCount++
	case "img":
		sig.ImageCount++
	case "ul", "ol":
		sig.ListCount++
	case "header":
		layout.HasHeader = true
	case "nav":
		layout.HasNav = true
	case "main":
		layout.HasMain = true
	case "aside":
		layout.HasSidebar = true
	case "footer":
		layout.HasFooter = true
	case "form":
		layout.HasForm = true
	}
}

// normalizeToken collapses each digit run into a single placeholder.
func normalizeToken(token string) string {
	var b strings.Builder
	inDigits := false
	for _, r := range token {
		if r >= '0' && r <= '9' {
			if !inDigits {
				b.WriteRune(digitPlaceholder)
				inDigits = true
			}
			continue
		}
		inDigits = false
		b.WriteRune(r)
	}
	return b.String()
}

func isGridToken(token string) bool {
	lower := strings.ToLower(token)
	return strings.Contains(lower, "grid") ||
		lower == "row" ||
		strings.HasPrefix(lower, "col")
}
