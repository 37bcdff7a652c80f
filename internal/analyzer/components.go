package analyzer

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/h0ck3ystyx/recrafter/internal/types"
)

// contentSampleLimit caps the stored text sample per component.
const contentSampleLimit = 100

// tagRule maps an element tag to the component category it implies.
type tagRule struct {
	tag      string
	category string
}

var tagRules = []tagRule{
	{"nav", "navigation"},
	{"header", "header"},
	{"footer", "footer"},
	{"menu", "menu"},
	{"main", "main_content"},
	{"article", "article"},
	{"section", "section"},
	{"aside", "aside"},
	{"form", "form"},
	{"input", "input"},
	{"button", "button"},
	{"img", "image"},
	{"video", "video"},
	{"audio", "audio"},
}

// attrRule matches a class or id attribute against a pattern and assigns a
// category. Patterns are anchored to word fragments, not whole values.
type attrRule struct {
	pattern  *regexp.Regexp
	category string
}

func mustAttrRules(prefix string, patterns []string) []attrRule {
	rules := make([]attrRule, len(patterns))
	for i, p := range patterns {
		rules[i] = attrRule{
			pattern:  regexp.MustCompile(`(?i)` + p),
			category: prefix + "_" + strings.NewReplacer(`(?:igation)?`, ``).Replace(p),
		}
	}
	return rules
}

var componentAttrPatterns = []string{
	`nav(?:igation)?`,
	`menu`,
	`sidebar`,
	`header`,
	`footer`,
	`content`,
	`form`,
	`button`,
	`card`,
	`tile`,
	`widget`,
	`component`,
}

var (
	classRules = mustAttrRules("class", componentAttrPatterns)
	idRules    = mustAttrRules("id", componentAttrPatterns)
)

// navClassHints mark an element as navigation regardless of its tag.
var navClassHints = []string{"nav", "navigation", "menu", "breadcrumb", "pagination"}

// extractComponents identifies reusable UI fragments on the page by tag,
// class pattern, id pattern, and structural heuristics. Duplicate selectors
// fold into a frequency count on the page.
func extractComponents(page *types.Page, doc *goquery.Document) {
	for _, rule := range tagRules {
		doc.Find(rule.tag).Each(func(_ int, sel *goquery.Selection) {
			page.AddComponent(buildComponent(sel, rule.category))
		})
	}

	doc.Find("[class]").Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		for _, rule := range classRules {
			if rule.pattern.MatchString(class) {
				page.AddComponent(buildComponent(sel, rule.category))
			}
		}
	})

	doc.Find("[id]").Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("id")
		for _, rule := range idRules {
			if rule.pattern.MatchString(id) {
				page.AddComponent(buildComponent(sel, rule.category))
			}
		}
	})

	extractForms(page, doc)
	extractNavigation(page, doc)
}

// extractForms records each form with its action and method.
func extractForms(page *types.Page, doc *goquery.Document) {
	doc.Find("form").Each(func(_ int, sel *goquery.Selection) {
		c := buildComponent(sel, "form")
		if c.Attributes == nil {
			c.Attributes = make(map[string]string)
		}
		action, _ := sel.Attr("action")
		method, ok := sel.Attr("method")
		if !ok {
			method = "get"
		}
		c.Attributes["action"] = action
		c.Attributes["method"] = method
		page.AddComponent(c)
	})
}

// extractNavigation finds nav-like lists: elements with navigation class or
// id hints, or lists carrying more than two links.
func extractNavigation(page *types.Page, doc *goquery.Document) {
	doc.Find("nav, ul, ol").Each(func(_ int, sel *goquery.Selection) {
		if !isNavigationElement(sel) {
			return
		}
		page.AddComponent(buildComponent(sel, "navigation"))
	})
}

func isNavigationElement(sel *goquery.Selection) bool {
	class, _ := sel.Attr("class")
	lower := strings.ToLower(class)
	for _, hint := range navClassHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	id, _ := sel.Attr("id")
	lower = strings.ToLower(id)
	for _, hint := range navClassHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return sel.Find("a, li").Length() > 2
}

// buildComponent captures an element as a Component: selector, classes,
// non-identifying attributes, and a bounded text sample.
func buildComponent(sel *goquery.Selection, category string) types.Component {
	node := sel.Get(0)
	c := types.Component{
		Selector: cssSelector(sel),
		Tag:      node.Data,
		Category: category,
	}

	if class, ok := sel.Attr("class"); ok {
		c.Classes = strings.Fields(class)
	}

	for _, attr := range node.Attr {
		if attr.Key == "class" || attr.Key == "id" {
			continue
		}
		if c.Attributes == nil {
			c.Attributes = make(map[string]string)
		}
		c.Attributes[attr.Key] = attr.Val
	}

	text := strings.TrimSpace(sel.Text())
	if len(text) > contentSampleLimit {
		text = text[:contentSampleLimit]
	}
	c.ContentSample = text
	return c
}

// cssSelector derives a stable selector for an element: id first, then its
// classes, then a parent-qualified tag.
func cssSelector(sel *goquery.Selection) string {
	if id, ok := sel.Attr("id"); ok && id != "" {
		return "#" + id
	}
	if class, ok := sel.Attr("class"); ok {
		if fields := strings.Fields(class); len(fields) > 0 {
			return "." + strings.Join(fields, ".")
		}
	}

	node := sel.Get(0)
	if parent := sel.Parent(); parent.Length() > 0 {
		if pn := parent.Get(0); pn.Type == html.ElementNode && pn.Data != "html" {
			return pn.Data + " > " + node.Data
		}
	}
	return node.Data
}
