package analyzer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/h0ck3ystyx/recrafter/internal/types"
)

// extractMetadata reads the document head: title, standard meta tags, the
// canonical link, and Open Graph / Twitter card tags.
func extractMetadata(doc *goquery.Document) types.PageMetadata {
	md := types.PageMetadata{
		OGTags:      make(map[string]string),
		TwitterTags: make(map[string]string),
	}

	md.Title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		content, _ := sel.Attr("content")

		if name, ok := sel.Attr("name"); ok {
			switch strings.ToLower(name) {
			case "description":
				md.Description = content
			case "keywords":
				for _, kw := range strings.Split(content, ",") {
					if kw = strings.TrimSpace(kw); kw != "" {
						md.Keywords = append(md.Keywords, kw)
					}
				}
			case "author":
				md.Author = content
			case "language":
				md.Language = content
			default:
				if key, found := strings.CutPrefix(name, "twitter:"); found && key != "" && content != "" {
					md.TwitterTags[key] = content
				}
			}
		}

		if prop, ok := sel.Attr("property"); ok {
			if key, found := strings.CutPrefix(prop, "og:"); found && key != "" && content != "" {
				md.OGTags[key] = content
			}
		}
	})

	if href, ok := doc.Find("link[rel='canonical']").First().Attr("href"); ok {
		md.CanonicalURL = href
	}

	if md.Language == "" {
		if lang, ok := doc.Find("html").First().Attr("lang"); ok {
			md.Language = lang
		}
	}

	if len(md.OGTags) == 0 {
		md.OGTags = nil
	}
	if len(md.TwitterTags) == 0 {
		md.TwitterTags = nil
	}
	return md
}
