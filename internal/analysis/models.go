package analysis

import (
	"sort"
	"strings"

	"github.com/h0ck3ystyx/recrafter/internal/types"
)

// samplePageLimit caps the example URLs listed per content model.
const samplePageLimit = 5

// generateContentModels proposes one CMS content model per page type found
// in the crawl, with fields tailored to the type. Output is sorted by page
// type for stable reports.
func generateContentModels(pages []*types.Page) []ContentModel {
	byType := make(map[string][]*types.Page)
	for _, p := range pages {
		pt := p.Metadata.PageType
		if pt == "" {
			pt = "general_page"
		}
		byType[pt] = append(byType[pt], p)
	}

	pageTypes := make([]string, 0, len(byType))
	for pt := range byType {
		pageTypes = append(pageTypes, pt)
	}
	sort.Strings(pageTypes)

	models := make([]ContentModel, 0, len(pageTypes))
	for _, pt := range pageTypes {
		models = append(models, buildContentModel(pt, byType[pt]))
	}
	return models
}

func buildContentModel(pageType string, pages []*types.Page) ContentModel {
	model := ContentModel{
		Name:        titleCase(pageType) + " Model",
		PageType:    pageType,
		Description: "Content model for " + pageType + " pages",
		Fields:      modelFields(pageType),
	}
	for _, p := range pages {
		if len(model.SamplePages) >= samplePageLimit {
			break
		}
		model.SamplePages = append(model.SamplePages, p.URL)
	}
	return model
}

// modelFields returns the field set for a page type. Types without a
// specialized layout get the generic title/content/metadata trio.
func modelFields(pageType string) []ModelField {
	switch pageType {
	case "homepage":
		return []ModelField{
			{Name: "title", Type: "text", Required: true, Description: "Page title"},
			{Name: "hero_content", Type: "rich_text", Description: "Hero section content"},
			{Name: "featured_content", Type: "content_reference", Description: "Featured content items"},
		}
	case "blog_post":
		return []ModelField{
			{Name: "title", Type: "text", Required: true, Description: "Post title"},
			{Name: "content", Type: "rich_text", Required: true, Description: "Post content"},
			{Name: "author", Type: "text", Description: "Post author"},
			{Name: "publish_date", Type: "date", Description: "Publication date"},
			{Name: "tags", Type: "text_list", Description: "Post tags"},
		}
	case "product_page":
		return []ModelField{
			{Name: "title", Type: "text", Required: true, Description: "Product name"},
			{Name: "description", Type: "rich_text", Description: "Product description"},
			{Name: "price", Type: "number", Description: "Product price"},
			{Name: "images", Type: "image_list", Description: "Product images"},
			{Name: "specifications", Type: "key_value_list", Description: "Product specs"},
		}
	case "form_page":
		return []ModelField{
			{Name: "title", Type: "text", Required: true, Description: "Form title"},
			{Name: "description", Type: "rich_text", Description: "Form description"},
			{Name: "form_fields", Type: "form_field_list", Description: "Form field definitions"},
			{Name: "submit_button_text", Type: "text", Description: "Submit button text"},
		}
	default:
		return []ModelField{
			{Name: "title", Type: "text", Required: true, Description: "Page title"},
			{Name: "content", Type: "rich_text", Description: "Page content"},
			{Name: "metadata", Type: "metadata_group", Description: "Page metadata"},
		}
	}
}

// titleCase renders "blog_post" as "Blog Post".
func titleCase(s string) string {
	words := strings.Split(s, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
