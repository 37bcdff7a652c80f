package analyzer

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/h0ck3ystyx/recrafter/internal/types"
)

// landmarkProbes map structural landmarks to XPath probes against the
// document root.
var landmarkProbes = []struct {
	xpath string
	set   func(*types.LayoutStructure)
}{
	{"//header", func(ls *types.LayoutStructure) { ls.HasHeader = true }},
	{"//nav", func(ls *types.LayoutStructure) { ls.HasNav = true }},
	{"//main", func(ls *types.LayoutStructure) { ls.HasMain = true }},
	{"//aside", func(ls *types.LayoutStructure) { ls.HasSidebar = true }},
	{"//footer", func(ls *types.LayoutStructure) { ls.HasFooter = true }},
	{"//form", func(ls *types.LayoutStructure) { ls.HasForm = true }},
}

// extractLayout detects the page's structural landmarks, CSS framework, and
// grid/responsive class usage.
func extractLayout(doc *goquery.Document) *types.LayoutInfo {
	info := &types.LayoutInfo{}

	root := doc.Get(0)
	for _, probe := range landmarkProbes {
		if node, err := htmlquery.Query(root, probe.xpath); err == nil && node != nil {
			probe.set(&info.Structure)
		}
	}

	classes := collectClasses(root)
	info.CSSFramework = detectFramework(classes)
	info.GridClasses = matchingClasses(classes, isGridClass)
	info.ResponsiveClasses = matchingClasses(classes, isResponsiveClass)
	info.Structure.HasGrid = len(info.GridClasses) > 0
	info.Signature = info.Structure.Signature()
	return info
}

// collectClasses gathers the distinct class tokens used in the document.
func collectClasses(root *html.Node) map[string]int {
	classes := make(map[string]int)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, attr := range n.Attr {
				if attr.Key != "class" {
					continue
				}
				for _, token := range strings.Fields(attr.Val) {
					classes[token]++
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return classes
}

// Framework fingerprints: class tokens that identify a CSS framework when
// several of them appear together.
var frameworkFingerprints = []struct {
	name   string
	tokens []string
}{
	{"bootstrap", []string{"container", "row", "col", "btn", "navbar"}},
	{"tailwind", []string{"flex", "grid", "text-center", "mx-auto", "font-bold"}},
	{"foundation", []string{"grid-x", "cell", "callout", "top-bar"}},
	{"bulma", []string{"columns", "column", "hero", "navbar-burger"}},
}

// frameworkMatchFloor is the number of fingerprint tokens that must appear
// before a framework is reported.
const frameworkMatchFloor = 2

func detectFramework(classes map[string]int) string {
	for _, fp := range frameworkFingerprints {
		matches := 0
		for _, token := range fp.tokens {
			if classes[token] > 0 {
				matches++
				continue
			}
			// Bootstrap-style tokens often carry suffixes (col-md-6).
			for class := range classes {
				if strings.HasPrefix(class, token+"-") {
					matches++
					break
				}
			}
		}
		if matches >= frameworkMatchFloor {
			return fp.name
		}
	}
	return ""
}

func isGridClass(class string) bool {
	lower := strings.ToLower(class)
	return strings.Contains(lower, "grid") ||
		strings.Contains(lower, "row") ||
		strings.HasPrefix(lower, "col")
}

var responsivePrefixes = []string{"sm:", "md:", "lg:", "xl:", "2xl:"}

func isResponsiveClass(class string) bool {
	lower := strings.ToLower(class)
	for _, prefix := range responsivePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return strings.Contains(lower, "-sm-") ||
		strings.Contains(lower, "-md-") ||
		strings.Contains(lower, "-lg-") ||
		strings.Contains(lower, "-xl-")
}

func matchingClasses(classes map[string]int, match func(string) bool) []string {
	var out []string
	for class := range classes {
		if match(class) {
			out = append(out, class)
		}
	}
	sort.Strings(out)
	return out
}
