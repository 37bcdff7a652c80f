package analyzer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/h0ck3ystyx/recrafter/internal/types"
)

// Page type labels.
const (
	TypeBlogPost       = "blog_post"
	TypeProductPage    = "product_page"
	TypeCategoryPage   = "category_page"
	TypeInformation    = "information_page"
	TypeSearchPage     = "search_page"
	TypeHomepage       = "homepage"
	TypeAuthentication = "authentication_page"
	TypeFormPage       = "form_page"
	TypeGeneralPage    = "general_page"
)

// urlTypeRule classifies a page by URL path fragments. Rules are checked in
// order; the first match wins.
type urlTypeRule struct {
	fragments []string
	pageType  string
}

var urlTypeRules = []urlTypeRule{
	{[]string{"/blog/", "/news/", "/article/"}, TypeBlogPost},
	{[]string{"/product/", "/item/", "/detail/"}, TypeProductPage},
	{[]string{"/category/", "/collection/"}, TypeCategoryPage},
	{[]string{"/contact", "/about", "/team"}, TypeInformation},
	{[]string{"/search", "/results"}, TypeSearchPage},
}

var authTitleWords = []string{"login", "signin", "register", "signup"}

// identifyPageType classifies a page by URL fragments, homepage position,
// title keywords, and finally form presence.
func identifyPageType(page *types.Page, doc *goquery.Document) string {
	lowerURL := strings.ToLower(page.URL)
	for _, rule := range urlTypeRules {
		for _, frag := range rule.fragments {
			if strings.Contains(lowerURL, frag) {
				return rule.pageType
			}
		}
	}

	if page.IsHomepage() {
		return TypeHomepage
	}

	lowerTitle := strings.ToLower(page.Title)
	for _, word := range authTitleWords {
		if strings.Contains(lowerTitle, word) {
			return TypeAuthentication
		}
	}

	if doc.Find("form").Length() > 0 {
		return TypeFormPage
	}
	return TypeGeneralPage
}
